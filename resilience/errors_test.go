package resilience

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{ErrCircuitOpen, ErrTooManyConcurrent, ErrRateLimited, ErrTimeout}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}

func TestLimitError_Unwrap(t *testing.T) {
	err := &LimitError{Cause: ErrRateLimited, RetryAfter: 7 * time.Second}

	if !errors.Is(err, ErrRateLimited) {
		t.Error("LimitError should unwrap to its cause")
	}
	if errors.Is(err, ErrTooManyConcurrent) {
		t.Error("LimitError should not match other sentinels")
	}
	if !strings.Contains(err.Error(), "7s") {
		t.Errorf("Error() = %q, want retry hint in message", err.Error())
	}
}
