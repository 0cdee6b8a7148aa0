package keywords

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long an AI expansion stays reusable.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores AI keyword expansions by profile key. A failing cache behaves
// like a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, terms []string)
}

// MemoryCache is an in-process expiring LRU.
type MemoryCache struct {
	lru *expirable.LRU[string, []string]
}

// NewMemoryCache creates an in-process cache of up to size profiles.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, []string](size, nil, ttl)}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) ([]string, bool) {
	terms, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	return append([]string(nil), terms...), true
}

// Set implements Cache.
func (m *MemoryCache) Set(_ context.Context, key string, terms []string) {
	m.lru.Add(key, append([]string(nil), terms...))
}

// RedisCache shares expansions across processes.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache wraps a redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RedisCache{
		client: client,
		prefix: "career-news:keywords:",
		ttl:    ttl,
		logger: logger.With("component", "keyword-cache"),
	}
}

// NewRedisCacheFromURL parses a redis:// URL and pings the server.
func NewRedisCacheFromURL(ctx context.Context, rawURL string, ttl time.Duration, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisCache(client, ttl, logger), nil
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) ([]string, bool) {
	raw, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("redis get failed", "key", key, "error", err)
		return nil, false
	}

	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		r.logger.Warn("corrupt cached expansion", "key", key, "error", err)
		return nil, false
	}
	return terms, true
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, terms []string) {
	data, err := json.Marshal(terms)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", "key", key, "error", err)
	}
}

// Close releases the redis connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
