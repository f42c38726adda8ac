// Package store - redis.go provides a shared cache backend for serve mode,
// so multiple instances see the same enrichment records.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps enrichment records in Redis with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at redisURL (redis://...). A zero ttl
// selects DefaultTTL.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get returns the stored blob for a company name.
func (s *RedisStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, Key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get for %q: %w", name, err)
	}
	return data, true, nil
}

// Set writes the blob for a company name with the store TTL.
func (s *RedisStore) Set(ctx context.Context, name string, data []byte) error {
	if err := s.client.Set(ctx, Key(name), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set for %q: %w", name, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
