package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilStore   = errors.New("cache: store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Store is the interface for a single cache tier.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: I/O-backed implementations must honor cancellation/deadlines
//   and bound each operation with their own short timeout.
// - Errors: a miss is (nil, false, nil). A non-nil error signals tier I/O
//   failure; the Tiered decorator uses it to fall back, callers above the
//   Manager never see it.
type Store interface {
	// Get retrieves the live value for key. Returns (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetStale retrieves the stale copy for key, which outlives the primary
	// entry. Returns (nil, false, nil) when no copy remains.
	GetStale(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the primary ttl and retains a stale
	// copy for staleTTL. staleTTL must be >= ttl.
	Set(ctx context.Context, key string, value []byte, ttl, staleTTL time.Duration) error

	// Delete removes the given keys and their stale copies. Idempotent.
	Delete(ctx context.Context, keys ...string) error

	// DeleteMatching removes all keys matching the glob pattern.
	DeleteMatching(ctx context.Context, pattern string) error
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
