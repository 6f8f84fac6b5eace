// Package cache keeps read-mostly product records in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ProductCache stores JSON-encoded products under product:<id>.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	return &ProductCache{client: client, ttl: ttl, logger: logging.OrNop(logger)}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func versionKey(id int64) string {
	return fmt.Sprintf("product:%d:version", id)
}

// versionTTL outlives any in-flight read-through; an expired counter reads as 0, which
// still rejects writers that saw a higher version.
func (c *ProductCache) versionTTL() time.Duration {
	return max(2*c.ttl, time.Hour)
}

// Get returns the cached product and whether it was present. Redis errors count as a miss.
func (c *ProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache: get", zap.Int64("product_id", id), zap.Error(err))
		}
		return nil, false
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Warn("product cache: decode", zap.Int64("product_id", id), zap.Error(err))
		return nil, false
	}
	return &p, true
}

// Version returns the invalidation counter of a product. Read it before loading the product
// from the database and hand it to Set.
func (c *ProductCache) Version(ctx context.Context, id int64) int64 {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("product cache: version", zap.Int64("product_id", id), zap.Error(err))
		return -1
	}
	return v
}

// Set stores p unless the product was invalidated after version was read.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product, version int64) {
	if version < 0 {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("product cache: encode", zap.Int64("product_id", p.ID), zap.Error(err))
		return
	}
	vkey := versionKey(p.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			c.logger.Debug("product cache: stale write dropped", zap.Int64("product_id", p.ID))
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productKey(p.ID), data, c.ttl)
			return nil
		})
		return err
	}, vkey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		c.logger.Warn("product cache: set", zap.Int64("product_id", p.ID), zap.Error(err))
	}
}

// Invalidate drops the cached entries of the given products and bumps their versions so
// read-throughs that started earlier cannot store what they loaded.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, id := range ids {
			pipe.Incr(ctx, versionKey(id))
			pipe.Expire(ctx, versionKey(id), c.versionTTL())
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("product cache: invalidate", zap.Int("keys", len(keys)), zap.Error(err))
	}
}
