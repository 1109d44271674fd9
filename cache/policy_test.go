package cache

import (
	"testing"
	"time"
)

func TestPolicy_EffectiveTTL(t *testing.T) {
	p := Policy{DefaultTTL: 5 * time.Minute, MaxTTL: time.Hour}

	tests := []struct {
		name     string
		override time.Duration
		want     time.Duration
	}{
		{"zero uses default", 0, 5 * time.Minute},
		{"negative uses default", -time.Second, 5 * time.Minute},
		{"override within max", 10 * time.Minute, 10 * time.Minute},
		{"override clamped to max", 2 * time.Hour, time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.EffectiveTTL(tt.override); got != tt.want {
				t.Errorf("EffectiveTTL(%v) = %v, want %v", tt.override, got, tt.want)
			}
		})
	}
}

func TestPolicy_NoMaxTTL(t *testing.T) {
	p := Policy{DefaultTTL: time.Minute}
	if got := p.EffectiveTTL(24 * time.Hour); got != 24*time.Hour {
		t.Errorf("EffectiveTTL without MaxTTL = %v, want unclamped", got)
	}
}

func TestPolicy_StaleTTL(t *testing.T) {
	p := DefaultPolicy()
	if got := p.StaleTTL(time.Minute); got != 2*time.Minute {
		t.Errorf("StaleTTL(1m) = %v, want 2m", got)
	}

	wide := Policy{StaleFactor: 3}
	if got := wide.StaleTTL(time.Minute); got != 3*time.Minute {
		t.Errorf("StaleTTL with factor 3 = %v, want 3m", got)
	}

	// Zero factor falls back to the default multiplier.
	unset := Policy{}
	if got := unset.StaleTTL(time.Minute); got != 2*time.Minute {
		t.Errorf("StaleTTL with unset factor = %v, want 2m", got)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid", "cache:search:abcd", nil},
		{"empty", "", ErrInvalidKey},
		{"whitespace only", "   ", ErrInvalidKey},
		{"newline", "a\nb", ErrInvalidKey},
		{"too long", string(make([]byte, MaxKeyLength+1)), ErrKeyTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateKey() error = %v, want nil", err)
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Errorf("ValidateKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
