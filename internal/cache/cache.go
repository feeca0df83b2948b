// Package cache provides a best-effort key-value cache with TTL. Entries
// may be silently stale or missing; it is never the authoritative store.
package cache

import (
	"context"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type redisCache struct {
	client *redislib.Client
	prefix string
	logger *zap.Logger
}

// NewRedis wraps a Redis client. Failures are logged and swallowed so a
// Redis outage degrades to cache misses instead of request errors.
func NewRedis(client *redislib.Client, prefix string, logger *zap.Logger) Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	result, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redislib.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return result, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
