// Package cache fronts single-order reads with Redis. The store stays the
// source of truth; cache entries are TTL-bounded and refreshed after every
// write, and any cache problem degrades to a repository read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/testworkflow/ordersvc/internal/domain"
)

const keyPrefix = "order:"

// OrderCache caches serialized orders by id.
type OrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewOrderCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *OrderCache {
	return &OrderCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached order or nil on a miss. Decode failures count as
// misses and evict the bad entry.
func (c *OrderCache) Get(ctx context.Context, id uuid.UUID) *domain.Order {
	payload, err := c.client.Get(ctx, keyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		c.logger.Warn("order cache read failed", "orderId", id, "error", err)
		return nil
	}

	var order domain.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		c.logger.Warn("evicting undecodable order cache entry", "orderId", id, "error", err)
		c.client.Del(ctx, keyPrefix+id.String())
		return nil
	}
	return &order
}

// Set stores the order under its id. Failures are logged; the caller already
// holds the authoritative copy.
func (c *OrderCache) Set(ctx context.Context, order *domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		c.logger.Warn("failed to encode order for cache", "orderId", order.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+order.ID.String(), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("order cache write failed", "orderId", order.ID, "error", err)
	}
}
