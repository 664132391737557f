package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const capacityKey = "booking:capacity:available_boats"

// BoatCounter is the source of truth for the available-boat count.
type BoatCounter interface {
	CountAvailable(ctx context.Context) (int64, error)
}

// CapacityCache keeps the available-boat count in Redis for ttl. When Redis is
// unreachable it reads straight from the source.
type CapacityCache struct {
	client *redis.Client
	source BoatCounter
	ttl    time.Duration
	logger *zap.Logger
}

func NewCapacityCache(client *redis.Client, source BoatCounter, ttl time.Duration, logger *zap.Logger) *CapacityCache {
	return &CapacityCache{client: client, source: source, ttl: ttl, logger: logger}
}

// AvailableBoatCount returns the cached count, filling the cache on a miss.
func (c *CapacityCache) AvailableBoatCount(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, capacityKey).Result()
	switch {
	case err == nil:
		if n, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil {
			return n, nil
		}
		c.logger.Warn("discarding malformed capacity cache entry", zap.String("value", raw))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("capacity cache unavailable, reading from database", zap.Error(err))
		return c.source.CountAvailable(ctx)
	}

	n, err := c.source.CountAvailable(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count available boats: %w", err)
	}
	if err := c.client.Set(ctx, capacityKey, n, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to store capacity in cache", zap.Error(err))
	}
	return n, nil
}

// Invalidate drops the cached count so the next read hits the source.
func (c *CapacityCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, capacityKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate capacity cache: %w", err)
	}
	return nil
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
