package tool

import (
	"fmt"
	"time"
)

// KeyStrategy selects how cache keys are derived from an invocation.
type KeyStrategy int

const (
	// KeyByParams derives the key from the parameters only, so identical
	// calls share one entry across users.
	KeyByParams KeyStrategy = iota

	// KeyByUser scopes the key to the calling user in addition to the
	// parameters.
	KeyByUser

	// KeyCustom delegates key derivation to CacheConfig.KeyFunc.
	KeyCustom
)

// String returns the string representation of the strategy.
func (s KeyStrategy) String() string {
	switch s {
	case KeyByParams:
		return "params"
	case KeyByUser:
		return "user"
	case KeyCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// KeyFunc derives a caller-supplied cache key component for KeyCustom.
// The returned string is still namespaced and hashed by the cache layer.
type KeyFunc func(params map[string]any, tc Context) string

// CacheConfig configures result caching for one tool.
type CacheConfig struct {
	// Enabled gates caching for this tool.
	Enabled bool

	// TTL is the primary entry lifetime. The stale copy lives for 2x TTL.
	TTL time.Duration

	// KeyStrategy selects the key derivation strategy.
	KeyStrategy KeyStrategy

	// KeyFunc supplies the key component when KeyStrategy is KeyCustom.
	KeyFunc KeyFunc
}

// Validate checks the configuration. It is called at registration time so
// misconfigured tools fail early instead of on first invocation.
func (c *CacheConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%w: cache TTL must be positive", ErrInvalidConfig)
	}
	switch c.KeyStrategy {
	case KeyByParams, KeyByUser:
		return nil
	case KeyCustom:
		if c.KeyFunc == nil {
			return fmt.Errorf("%w: KeyCustom requires a KeyFunc", ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown key strategy %d", ErrInvalidConfig, int(c.KeyStrategy))
	}
}

// Validate checks the rate limit configuration.
func (c *RateLimitConfig) Validate() error {
	if c == nil {
		return nil
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("%w: MaxConcurrent must not be negative", ErrInvalidConfig)
	}
	if c.MaxPerMinute < 0 {
		return fmt.Errorf("%w: MaxPerMinute must not be negative", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: Timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the full plugin metadata.
func (m Meta) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: tool name is required", ErrInvalidConfig)
	}
	if err := m.RateLimit.Validate(); err != nil {
		return fmt.Errorf("tool %q: %w", m.Name, err)
	}
	if err := m.Cache.Validate(); err != nil {
		return fmt.Errorf("tool %q: %w", m.Name, err)
	}
	return nil
}
