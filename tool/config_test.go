package tool

import (
	"errors"
	"testing"
	"time"
)

// TestKeyStrategy_String verifies strategy string representations.
func TestKeyStrategy_String(t *testing.T) {
	tests := []struct {
		strategy KeyStrategy
		want     string
	}{
		{KeyByParams, "params"},
		{KeyByUser, "user"},
		{KeyCustom, "custom"},
		{KeyStrategy(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.strategy.String(); got != tc.want {
			t.Errorf("KeyStrategy(%d).String() = %q, want %q", tc.strategy, got, tc.want)
		}
	}
}

// TestCacheConfig_Validate verifies cache configuration checks.
func TestCacheConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *CacheConfig
		wantErr bool
	}{
		{
			name: "valid params strategy",
			cfg:  &CacheConfig{Enabled: true, TTL: time.Minute, KeyStrategy: KeyByParams},
		},
		{
			name: "valid user strategy",
			cfg:  &CacheConfig{Enabled: true, TTL: time.Minute, KeyStrategy: KeyByUser},
		},
		{
			name: "valid custom strategy",
			cfg: &CacheConfig{
				Enabled:     true,
				TTL:         time.Minute,
				KeyStrategy: KeyCustom,
				KeyFunc:     func(map[string]any, Context) string { return "k" },
			},
		},
		{
			name: "nil config",
			cfg:  nil,
		},
		{
			name: "disabled skips checks",
			cfg:  &CacheConfig{Enabled: false, TTL: -1},
		},
		{
			name:    "zero TTL",
			cfg:     &CacheConfig{Enabled: true, KeyStrategy: KeyByParams},
			wantErr: true,
		},
		{
			name:    "custom without KeyFunc",
			cfg:     &CacheConfig{Enabled: true, TTL: time.Minute, KeyStrategy: KeyCustom},
			wantErr: true,
		},
		{
			name:    "unknown strategy",
			cfg:     &CacheConfig{Enabled: true, TTL: time.Minute, KeyStrategy: KeyStrategy(42)},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got: %v", err)
				}
			} else if err != nil {
				t.Errorf("expected nil error, got: %v", err)
			}
		})
	}
}

// TestRateLimitConfig_Validate verifies rate limit configuration checks.
func TestRateLimitConfig_Validate(t *testing.T) {
	valid := &RateLimitConfig{MaxConcurrent: 3, MaxPerMinute: 10, Timeout: 30 * time.Second}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}

	var nilCfg *RateLimitConfig
	if err := nilCfg.Validate(); err != nil {
		t.Errorf("nil config should be valid, got: %v", err)
	}

	for _, cfg := range []*RateLimitConfig{
		{MaxConcurrent: -1},
		{MaxPerMinute: -1},
		{Timeout: -time.Second},
	} {
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("config %+v: expected ErrInvalidConfig, got: %v", cfg, err)
		}
	}
}

// TestMeta_Validate verifies metadata validation covers nested configs.
func TestMeta_Validate(t *testing.T) {
	valid := Meta{
		Name:      "web_search",
		Enabled:   true,
		RateLimit: &RateLimitConfig{MaxConcurrent: 3},
		Cache:     &CacheConfig{Enabled: true, TTL: time.Minute},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}

	if err := (Meta{}).Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for missing name, got: %v", err)
	}

	bad := Meta{
		Name:  "web_search",
		Cache: &CacheConfig{Enabled: true, TTL: -time.Second},
	}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad cache config, got: %v", err)
	}
}
