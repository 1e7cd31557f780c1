package summary

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yanizio/loanform/internal/cache"
)

// Cache stores encoded schedules by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// RedisCache keeps schedules in Redis.
type RedisCache struct {
	client redis.UniversalClient
}

// RedisOptions mirrors the subset of redis.Options we expose in config.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache connects lazily; the first command dials.
func NewRedisCache(opts RedisOptions) *RedisCache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}))
}

// NewRedisCacheFromClient wraps an existing client, single node or cluster.
func NewRedisCacheFromClient(c redis.UniversalClient) *RedisCache {
	return &RedisCache{client: c}
}

// Get implements Cache.  A missing key is a miss, not an error.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// Close releases the connection pool.
func (r *RedisCache) Close() error { return r.client.Close() }

// MemoryCache is an in-process Cache backed by an LRU.
type MemoryCache struct {
	lru *cache.LRU[string, []byte]
}

// NewMemoryCache returns a MemoryCache holding at most size schedules.
func NewMemoryCache(size int) *MemoryCache {
	return &MemoryCache{lru: cache.New[string, []byte](size)}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

// Set implements Cache.
func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.lru.AddTTL(key, append([]byte(nil), val...), ttl)
	return nil
}
