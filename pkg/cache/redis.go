package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis instance. Errors are logged and
// swallowed; a down Redis degrades to cache misses.
type Redis struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(url string, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{rdb: rdb, logger: logger}, nil
}

func (c *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return "", false
	}
	return val, true
}

func (c *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *Redis) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache delete failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Health checks connectivity, used by the readiness probe.
func (c *Redis) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (c *Redis) Close() error {
	return c.rdb.Close()
}
