package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"order-desk/internal/config"
	"order-desk/internal/core"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	variationsKey     = "order-desk:catalog:variations"
	priceMemoryKeyFmt = "order-desk:price-memory:%d"
)

// Connect opens a redis client on addr and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 20,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// CatalogCache serves catalog and price-memory snapshots from redis and falls back
// to the wrapped service on a miss. A nil client makes it a pass-through. Redis
// failures are logged and never fail a read.
type CatalogCache struct {
	next   core.CatalogService
	rdb    *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewCatalogCache wraps next.
func NewCatalogCache(next core.CatalogService, rdb *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *CatalogCache {
	return &CatalogCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CatalogCache) GetVariations(ctx context.Context) ([]core.ProductVariation, error) {
	var cached []core.ProductVariation
	if c.get(ctx, variationsKey, &cached) {
		return cached, nil
	}
	vs, err := c.next.GetVariations(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, variationsKey, vs)
	return vs, nil
}

func (c *CatalogCache) GetPriceMemory(ctx context.Context, customerID int) (core.PriceMemory, error) {
	key := fmt.Sprintf(priceMemoryKeyFmt, customerID)
	var cached core.PriceMemory
	if c.get(ctx, key, &cached) {
		return cached, nil
	}
	mem, err := c.next.GetPriceMemory(ctx, customerID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, mem)
	return mem, nil
}

// InvalidatePriceMemory drops the cached price memory of a customer, called after
// an order for that customer is stored.
func (c *CatalogCache) InvalidatePriceMemory(ctx context.Context, customerID int) {
	if c.rdb == nil {
		return
	}
	key := fmt.Sprintf(priceMemoryKeyFmt, customerID)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		config.LogError(c.logger, "cache", "InvalidatePriceMemory", "redis del", key, err)
	}
}

func (c *CatalogCache) get(ctx context.Context, key string, dest any) bool {
	if c.rdb == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.LogError(c.logger, "cache", "get", "redis get", key, err)
		}
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		config.LogError(c.logger, "cache", "get", "decode cached value", key, err)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, obj any) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(obj)
	if err != nil {
		config.LogError(c.logger, "cache", "set", "encode value", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		config.LogError(c.logger, "cache", "set", "redis set", key, err)
	}
}
