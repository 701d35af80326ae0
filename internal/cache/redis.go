package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	listingPrefix     = "listings"
	generationKey     = "listings:generation"
	defaultGeneration = "0"
)

// RedisCache stores listing pages in Redis. Invalidation bumps a
// generation counter that is part of every key, so stale pages are never
// read again and expire on their own.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) key(ctx context.Context, q models.ListingQuery) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		gen = defaultGeneration
	} else if err != nil {
		return "", err
	}
	return QueryKey(listingPrefix+":"+gen, q.CacheParams()), nil
}

// GetPage looks q up under the current generation. The returned token is
// the key to store a freshly computed page under; it is empty when the
// generation could not be read.
func (c *RedisCache) GetPage(ctx context.Context, q models.ListingQuery) (*models.ListingPage, string, bool) {
	key, err := c.key(ctx, q)
	if err != nil {
		slog.Warn("listing cache unavailable", "error", err.Error())
		return nil, "", false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, key, false
	}
	if err != nil {
		slog.Warn("listing cache read failed", "error", err.Error())
		return nil, key, false
	}

	var page models.ListingPage
	if err := json.Unmarshal(data, &page); err != nil {
		slog.Warn("listing cache entry corrupt", "key", key, "error", err.Error())
		return nil, key, false
	}
	return &page, key, true
}

// SetPage stores page under a token returned by GetPage. If the cache was
// invalidated in between, the page lands in a retired generation.
func (c *RedisCache) SetPage(ctx context.Context, token string, page *models.ListingPage) {
	if token == "" {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		slog.Warn("listing cache encode failed", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, token, data, c.ttl).Err(); err != nil {
		slog.Warn("listing cache write failed", "error", err.Error())
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Error("listing cache invalidation failed", "error", err.Error())
	}
}
