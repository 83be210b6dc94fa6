package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"snow/pkg/ioctx"
)

// CachedBlobStore wraps a backend BlobStore with a Redis existence
// cache. Has() consults Redis first and falls through to the backend
// on a miss, filling the cache asynchronously; any Redis error is
// treated as a cache miss rather than a failure, since the cache is
// purely an optimization and the backend remains authoritative.
type CachedBlobStore struct {
	backend BlobStore
	client  *redis.Client
	ttl     time.Duration
}

type RedisCacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

const cacheKeyPrefix = "snow:blob:"

func NewCachedBlobStore(ctx context.Context, backend BlobStore, cfg RedisCacheConfig) (*CachedBlobStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &CachedBlobStore{backend: backend, client: client, ttl: ttl}, nil
}

func cacheKey(hash string) string {
	return cacheKeyPrefix + hash
}

func (c *CachedBlobStore) Has(ctx context.Context, hash string) (bool, error) {
	n, err := c.client.Exists(ctx, cacheKey(hash)).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	if err != nil {
		slog.Warn("redis cache unavailable, falling back to backend", "err", err)
	}

	exists, err := c.backend.Has(ctx, hash)
	if err != nil {
		return false, err
	}
	if exists {
		go c.fillCache(hash)
	}
	return exists, nil
}

func (c *CachedBlobStore) fillCache(hash string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, cacheKey(hash), "1", c.ttl).Err(); err != nil {
		slog.Warn("redis cache fill failed", "hash", hash, "err", err)
	}
}

func (c *CachedBlobStore) PutFile(ctx context.Context, hash, srcPath string, ioc *ioctx.Context) error {
	exists, err := c.Has(ctx, hash)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := c.backend.PutFile(ctx, hash, srcPath, ioc); err != nil {
		return err
	}
	c.fillCache(hash)
	return nil
}

func (c *CachedBlobStore) GetFile(ctx context.Context, hash, dstPath string, ioc *ioctx.Context) error {
	return c.backend.GetFile(ctx, hash, dstPath, ioc)
}

func (c *CachedBlobStore) ExpandHash(ctx context.Context, prefix string) (string, error) {
	return c.backend.ExpandHash(ctx, prefix)
}
