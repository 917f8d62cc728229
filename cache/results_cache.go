package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const generationKey = "election:results:gen"

// ResultsCache stores computed results as JSON under generation-versioned
// keys. Invalidate bumps the generation, so every entry written before it
// becomes unreachable at once and expires on its own TTL. A nil
// *ResultsCache always calls the loader.
type ResultsCache struct {
	client RedisClient
	ttl    time.Duration
}

// NewResultsCache returns nil when client is nil.
func NewResultsCache(client RedisClient, ttl time.Duration) *ResultsCache {
	if client == nil {
		return nil
	}
	return &ResultsCache{client: client, ttl: ttl}
}

func (c *ResultsCache) generation(ctx context.Context) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (c *ResultsCache) key(gen, name string) string {
	return fmt.Sprintf("election:results:v%s:%s", gen, name)
}

// expiration adds up to 10% jitter so entries do not all expire together.
func (c *ResultsCache) expiration() time.Duration {
	if c.ttl < 10 {
		return c.ttl
	}
	return c.ttl + time.Duration(rand.Int63n(int64(c.ttl/10)))
}

// Invalidate makes every cached result stale.
func (c *ResultsCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Error("failed to invalidate results cache", "error", err)
	}
}

// Fetch returns the cached value for name or runs loader and caches its
// result. Redis failures are logged and fall through to loader.
func Fetch[T any](ctx context.Context, c *ResultsCache, name string, loader func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return loader(ctx)
	}

	gen, err := c.generation(ctx)
	if err != nil {
		slog.Warn("results cache unavailable", "error", err)
		return loader(ctx)
	}
	key := c.key(gen, name)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("results cache read failed", "key", key, "error", err)
	}

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to encode cache entry", "key", key, "error", err)
		return value, nil
	}
	if err := c.client.Set(ctx, key, payload, c.expiration()).Err(); err != nil {
		slog.Warn("results cache write failed", "key", key, "error", err)
	}
	return value, nil
}
