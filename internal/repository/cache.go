package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/metrics"
	"github.com/Mzatilife/Bello/internal/models"
)

const (
	orderKeyPrefix  = "order:"
	buyerOrdersKey  = "buyer_orders:"
	defaultCacheTTL = 5 * time.Minute
)

// RedisOrderCache implements OrderCache using Redis.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisOrderCache(cfg config.RedisConfig, logger *slog.Logger) *RedisOrderCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "order-cache"),
	}
}

var _ OrderCache = (*RedisOrderCache)(nil)

// Get retrieves an order from cache. A miss returns (nil, nil).
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	data, err := c.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if err == redis.Nil {
		metrics.CacheHits.WithLabelValues("miss").Inc()
		c.logger.Debug("cache miss", "order_id", id)
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get error", "order_id", id, "error", err)
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}

	metrics.CacheHits.WithLabelValues("hit").Inc()
	c.logger.Debug("cache hit", "order_id", id)
	return &order, nil
}

// Set stores an order in cache.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, orderKeyPrefix+order.ID, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache set error", "order_id", order.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes an order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, orderKeyPrefix+id).Err(); err != nil {
		c.logger.Error("cache delete error", "order_id", id, "error", err)
		return err
	}
	return nil
}

// buyerOrdersEntry is the cached first page of a buyer's history plus
// the buyer's true order count.
type buyerOrdersEntry struct {
	Orders []*models.Order `json:"orders"`
	Total  int             `json:"total"`
}

// GetByBuyer retrieves a buyer's cached order page and total count. A
// miss returns (nil, 0, nil).
func (c *RedisOrderCache) GetByBuyer(ctx context.Context, buyerID string) ([]*models.Order, int, error) {
	data, err := c.client.Get(ctx, buyerOrdersKey+buyerID).Bytes()
	if err == redis.Nil {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var entry buyerOrdersEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, 0, err
	}
	return entry.Orders, entry.Total, nil
}

// SetByBuyer caches a buyer's order page with the true total.
func (c *RedisOrderCache) SetByBuyer(ctx context.Context, buyerID string, orders []*models.Order, total int) error {
	data, err := json.Marshal(buyerOrdersEntry{Orders: orders, Total: total})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, buyerOrdersKey+buyerID, data, c.ttl).Err()
}

// InvalidateByBuyer drops a buyer's cached order list.
func (c *RedisOrderCache) InvalidateByBuyer(ctx context.Context, buyerID string) error {
	return c.client.Del(ctx, buyerOrdersKey+buyerID).Err()
}

// Ping verifies the Redis connection at startup.
func (c *RedisOrderCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
