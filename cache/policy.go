package cache

import "time"

// Policy bounds per-tool caching behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when a tool does not specify one.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Tool TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration

	// StaleFactor is the multiplier applied to the TTL to size the stale
	// copy's lifetime. Default: 2.
	StaleFactor int
}

// DefaultPolicy returns the default caching policy.
// DefaultTTL: 5 minutes, MaxTTL: 1 hour, StaleFactor: 2.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL:  5 * time.Minute,
		MaxTTL:      1 * time.Hour,
		StaleFactor: 2,
	}
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}

// StaleTTL returns the stale copy's lifetime for the given primary TTL.
func (p Policy) StaleTTL(ttl time.Duration) time.Duration {
	factor := p.StaleFactor
	if factor < 1 {
		factor = 2
	}
	return ttl * time.Duration(factor)
}
