package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/petrvlcek232/techcon-growth-dashboard/internal/config"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/pipeline/parse"
	"github.com/redis/go-redis/v9"
)

const (
	queryKeyPrefix = "growth:query"

	defaultQueryTTL = 5 * time.Minute
	// Keys already change with every refresh, the TTL only bounds memory.
	maxQueryTTL = 24 * time.Hour

	scanBatchSize = 100
)

// BuildQueryKey derives the cache key of a period query:
// growth:query:<kind>:<sha1 of range, mode, normalized search and generatedAt>.
// The dataset's generatedAt is part of the hash so results never outlive
// their dataset.
func BuildQueryKey(kind string, q domain.CustomerQuery, generatedAt string) string {
	parts := []string{
		"kind=" + kind,
		"start=" + q.Range.Start,
		"end=" + q.Range.End,
		"mode=" + string(q.Mode),
		"q=" + parse.NormalizeForSearch(q.Search),
		"generated=" + generatedAt,
	}

	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s:%s", queryKeyPrefix, kind, hex.EncodeToString(hash[:]))
}

// queryTTL returns the configured query TTL, defaulting to five minutes and
// capped at a day.
func queryTTL(cfg config.CacheConfig) time.Duration {
	ttl := time.Duration(cfg.QueryTTLSeconds) * time.Second
	switch {
	case ttl <= 0:
		return defaultQueryTTL
	case ttl > maxQueryTTL:
		return maxQueryTTL
	default:
		return ttl
	}
}

func newRedisClient(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// invalidateQueryKeys drops every cached query result of every kind.
func invalidateQueryKeys(ctx context.Context, client *redis.Client) error {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, queryKeyPrefix+":*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis unlink failed: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
