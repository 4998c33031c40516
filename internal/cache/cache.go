// Package cache provides an optional Redis-backed response cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores serialized calculation responses keyed by request digest.
// A miss and a backend failure look the same to callers; the caller
// recomputes either way.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Key derives a stable cache key from a calculation name and the raw
// request body.
func Key(calculation string, body []byte) string {
	digest := sha256.Sum256(body)
	return "patrimoine:" + calculation + ":" + hex.EncodeToString(digest[:])
}

// RedisCache caches responses in Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects a cache to the Redis instance at addr. If logger
// is nil a no-op logger is used.
func NewRedisCache(addr string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached value for key if present.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed",
				zap.String("op", "cache.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return "", false
	}
	return value, true
}

// Set stores value under key. Failures are logged and otherwise ignored;
// the cache never turns into a request failure.
func (c *RedisCache) Set(ctx context.Context, key, value string) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed",
			zap.String("op", "cache.Set"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Disabled is a no-op cache used when no Redis address is configured.
type Disabled struct{}

func (Disabled) Get(context.Context, string) (string, bool) { return "", false }
func (Disabled) Set(context.Context, string, string)        {}
