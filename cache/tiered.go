package cache

import (
	"context"
	"time"
)

// FallbackFunc is notified when the primary tier fails and the fallback tier
// serves the operation. op is the failed operation name.
type FallbackFunc func(op string, err error)

// Tiered joins two cache tiers with fallback semantics: the primary tier
// (typically Redis) is preferred for both reads and writes, and any primary
// I/O error transparently falls back to the secondary tier (typically
// memory). A tier failure is reported through the hook, never to callers.
type Tiered struct {
	primary    Store
	fallback   Store
	onFallback FallbackFunc
}

// NewTiered creates a tiered store. onFallback may be nil.
func NewTiered(primary, fallback Store, onFallback FallbackFunc) *Tiered {
	return &Tiered{
		primary:    primary,
		fallback:   fallback,
		onFallback: onFallback,
	}
}

func (t *Tiered) fellBack(op string, err error) {
	if t.onFallback != nil {
		t.onFallback(op, err)
	}
}

// Get retrieves the live value, preferring the primary tier.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := t.primary.Get(ctx, key)
	if err == nil {
		return val, ok, nil
	}
	t.fellBack("get", err)
	return t.fallback.Get(ctx, key)
}

// GetStale retrieves the stale copy, preferring the primary tier.
func (t *Tiered) GetStale(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := t.primary.GetStale(ctx, key)
	if err == nil {
		return val, ok, nil
	}
	t.fellBack("get_stale", err)
	return t.fallback.GetStale(ctx, key)
}

// Set writes to the primary tier, falling back on error.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl, staleTTL time.Duration) error {
	if err := t.primary.Set(ctx, key, value, ttl, staleTTL); err != nil {
		t.fellBack("set", err)
		return t.fallback.Set(ctx, key, value, ttl, staleTTL)
	}
	return nil
}

// Delete removes keys from both tiers so a purge holds regardless of which
// tier served past reads.
func (t *Tiered) Delete(ctx context.Context, keys ...string) error {
	perr := t.primary.Delete(ctx, keys...)
	ferr := t.fallback.Delete(ctx, keys...)
	if perr != nil {
		t.fellBack("delete", perr)
		return ferr
	}
	return ferr
}

// DeleteMatching removes matching keys from both tiers.
func (t *Tiered) DeleteMatching(ctx context.Context, pattern string) error {
	perr := t.primary.DeleteMatching(ctx, pattern)
	ferr := t.fallback.DeleteMatching(ctx, pattern)
	if perr != nil {
		t.fellBack("delete_matching", perr)
		return ferr
	}
	return ferr
}

// Ensure Tiered implements Store
var _ Store = (*Tiered)(nil)
