package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/redis/go-redis/v9"
)

// QueryCache stores computed period-query results.
type QueryCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	InvalidateAll(ctx context.Context) error
}

type redisQueryCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopQueryCache struct{}

// NewQueryCache returns a redis-backed cache, or a no-op one when caching is disabled.
func NewQueryCache(cfg config.CacheConfig) (QueryCache, error) {
	if !cfg.Enabled {
		return &noopQueryCache{}, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisQueryCache{client: client, ttl: queryTTL(cfg)}, nil
}

func NewNoopQueryCache() QueryCache {
	return &noopQueryCache{}
}

func (c *redisQueryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode query cache: %w", err)
	}
	return true, nil
}

func (c *redisQueryCache) Set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode query cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisQueryCache) InvalidateAll(ctx context.Context) error {
	return invalidateQueryKeys(ctx, c.client)
}

func (n *noopQueryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (n *noopQueryCache) Set(ctx context.Context, key string, value any) error {
	return nil
}

func (n *noopQueryCache) InvalidateAll(ctx context.Context) error {
	return nil
}
