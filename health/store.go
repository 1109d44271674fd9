package health

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/toolguard/cache"
)

// StoreCheckerConfig configures the cache store checker.
type StoreCheckerConfig struct {
	// Timeout bounds one probe round-trip. Default: 2 seconds.
	Timeout time.Duration

	// DegradedLatency marks the store degraded when a probe takes longer.
	// Default: 250 milliseconds.
	DegradedLatency time.Duration
}

// StoreChecker verifies a cache tier by writing and reading back a probe
// entry. A failing primary tier is what pushes the pipeline onto its
// fallback, so surfacing it here gives operators the signal before users
// see degraded results.
type StoreChecker struct {
	name   string
	store  cache.Store
	config StoreCheckerConfig
}

// NewStoreChecker creates a checker for one cache tier.
func NewStoreChecker(name string, store cache.Store, config ...StoreCheckerConfig) *StoreChecker {
	cfg := StoreCheckerConfig{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.DegradedLatency <= 0 {
		cfg.DegradedLatency = 250 * time.Millisecond
	}

	return &StoreChecker{name: name, store: store, config: cfg}
}

// Name returns the name of this checker.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check writes a probe entry and reads it back.
func (c *StoreChecker) Check(ctx context.Context) Result {
	if c.store == nil {
		return Unhealthy("no store configured", cache.ErrNilStore)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	key := "health:probe:" + c.name
	want := []byte(start.Format(time.RFC3339Nano))

	if err := c.store.Set(ctx, key, want, c.config.Timeout, c.config.Timeout); err != nil {
		return Unhealthy("probe write failed", err)
	}

	got, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return Unhealthy("probe read failed", err)
	}
	if !ok || !bytes.Equal(got, want) {
		return Unhealthy("probe entry lost or corrupted", ErrCheckFailed)
	}

	latency := time.Since(start)
	details := map[string]any{
		"latency_ms": float64(latency.Microseconds()) / 1000,
	}

	if latency > c.config.DegradedLatency {
		return Degraded(fmt.Sprintf("store responding slowly: %s", latency.Round(time.Millisecond))).
			WithDetails(details)
	}
	return Healthy("store round-trip ok").WithDetails(details)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
