package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultOpTimeout bounds each Redis operation so a slow or unreachable
// store degrades to the fallback tier instead of blocking the caller.
const DefaultOpTimeout = 2 * time.Second

// RedisConfig configures the Redis tier.
type RedisConfig struct {
	// Client is the Redis client to use. Required. The caller owns its
	// lifecycle.
	Client redis.UniversalClient

	// OpTimeout bounds each operation. Default: 2 seconds.
	OpTimeout time.Duration
}

// RedisStore is the external KV cache tier. Expiry uses native Redis TTLs;
// the stale copy is a second key at <key>:stale with its own longer TTL.
type RedisStore struct {
	client    redis.UniversalClient
	opTimeout time.Duration
}

// NewRedisStore creates a Redis tier over an existing client.
func NewRedisStore(config RedisConfig) (*RedisStore, error) {
	if config.Client == nil {
		return nil, errors.New("cache: redis client is required")
	}
	if config.OpTimeout <= 0 {
		config.OpTimeout = DefaultOpTimeout
	}

	return &RedisStore{
		client:    config.Client,
		opTimeout: config.OpTimeout,
	}, nil
}

// Get retrieves the live value for key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get: %w", err)
	}
	return val, true, nil
}

// GetStale retrieves the stale copy for key.
func (s *RedisStore) GetStale(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, StaleKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: redis get stale: %w", err)
	}
	return val, true, nil
}

// Set stores value under key with native TTLs for both copies.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl, staleTTL time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if staleTTL < ttl {
		staleTTL = ttl
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, value, ttl)
	pipe.Set(ctx, StaleKey(key), value, staleTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache: redis set: %w", err)
	}
	return nil
}

// Delete removes the given keys and their stale copies. Idempotent.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	all := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		all = append(all, key, StaleKey(key))
	}
	if err := s.client.Del(ctx, all...).Err(); err != nil {
		return fmt.Errorf("cache: redis delete: %w", err)
	}
	return nil
}

// DeleteMatching removes all keys matching the glob pattern.
func (s *RedisStore) DeleteMatching(ctx context.Context, pattern string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache: redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: redis delete matching: %w", err)
	}
	return nil
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
