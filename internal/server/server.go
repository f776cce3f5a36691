package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mzatilife/Bello/internal/auth"
	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/handlers"
)

// Server wires the HTTP routes and owns the listener lifecycle.
type Server struct {
	config *config.Config
	router *gin.Engine
	http   *http.Server
}

func New(cfg *config.Config, h *handlers.Handlers, health *handlers.HealthHandlers, verifier *auth.Verifier) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		config: cfg,
		router: router,
		http: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	s.setupRoutes(h, health, verifier)
	return s
}

func (s *Server) setupRoutes(h *handlers.Handlers, health *handlers.HealthHandlers, verifier *auth.Verifier) {
	s.router.GET("/health", health.Health)
	s.router.GET("/ready", health.Ready)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")

	// Browsing is public.
	v1.GET("/listings", h.ListListings)
	v1.GET("/listings/:id", h.GetListing)

	authed := v1.Group("")
	authed.Use(auth.RequireAuth(verifier))
	{
		authed.POST("/listings", h.CreateListing)
		authed.GET("/my/listings", h.GetMyListings)
		authed.PATCH("/listings/:id", h.UpdateListing)
		authed.POST("/listings/:id/sold", h.MarkListingSold)
		authed.DELETE("/listings/:id", h.DeleteListing)

		authed.GET("/cart", h.GetCart)
		authed.GET("/cart/summary", h.GetCartSummary)
		authed.POST("/cart/items", h.AddToCart)
		authed.PATCH("/cart/items/:id", h.UpdateCartItem)
		authed.DELETE("/cart/items/:id", h.RemoveCartItem)
		authed.DELETE("/cart", h.ClearCart)

		authed.POST("/checkout", h.Checkout)

		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:id", h.GetOrder)
		authed.POST("/orders/:id/cancel", h.CancelOrder)
		authed.GET("/orders/:id/tracking", h.GetTracking)

		authed.GET("/payments", h.GetSellerPayments)

		authed.GET("/favorites", h.ListFavorites)
		authed.GET("/favorites/:listing_id", h.CheckFavorite)
		authed.PUT("/favorites/:listing_id", h.AddFavorite)
		authed.DELETE("/favorites/:listing_id", h.RemoveFavorite)

		// Lifecycle and payout mutations are back-office operations.
		admin := authed.Group("")
		admin.Use(auth.RequireAdmin())
		{
			admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
			admin.POST("/orders/:id/tracking", h.AddTracking)
			admin.POST("/payments/:id/process", h.ProcessSellerPayment)
			admin.POST("/payments/:id/complete", h.CompleteSellerPayment)
		}
	}
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
