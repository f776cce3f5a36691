package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/Mzatilife/Bello/internal/auth"
	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/events"
	"github.com/Mzatilife/Bello/internal/handlers"
	"github.com/Mzatilife/Bello/internal/repository"
	"github.com/Mzatilife/Bello/internal/server"
	"github.com/Mzatilife/Bello/internal/service"
	"github.com/Mzatilife/Bello/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Service:   "bello-orders",
		Env:       cfg.Env,
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
	})

	db, err := initDatabase(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.Name)

	cartRepo := repository.NewPostgresCartRepository(db, log)
	listingRepo := repository.NewPostgresListingRepository(db, log)
	orderRepo := repository.NewPostgresOrderRepository(db, cfg.Checkout.NumberRetries, log)
	paymentRepo := repository.NewPostgresPaymentRepository(db, log)
	trackingRepo := repository.NewPostgresTrackingRepository(db, log)
	favoriteRepo := repository.NewPostgresFavoriteRepository(db, log)
	orderCache := repository.NewRedisOrderCache(cfg.Redis, log)

	publisher := events.NewKafkaPublisher(cfg.Kafka, log)
	defer publisher.Close()

	cartService := service.NewCartService(cartRepo, listingRepo, cfg, log)
	checkoutService := service.NewCheckoutService(orderRepo, orderCache, publisher, cfg, log)
	orderService := service.NewOrderService(orderRepo, paymentRepo, trackingRepo, orderCache, publisher, cfg, log)
	listingService := service.NewListingService(listingRepo, log)
	favoriteService := service.NewFavoriteService(favoriteRepo, listingRepo, log)

	h := handlers.NewHandlers(cartService, checkoutService, orderService, listingService, favoriteService, log)
	health := handlers.NewHealthHandlers(db)
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	srv := server.New(cfg, h, health, verifier)

	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "env", cfg.Env)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	consumer := events.NewKafkaConsumer(cfg.Kafka, orderService, log)
	if cfg.Features.EnableOrderEvents {
		go func() {
			if err := consumer.Start(context.Background()); err != nil && err != context.Canceled {
				log.Error("payment event consumer failed", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.Features.EnableOrderEvents {
		consumer.Stop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}

	log.Info("server exited")
}

func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
