package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTooManyConcurrent is returned when the concurrency ceiling is reached.
	ErrTooManyConcurrent = errors.New("resilience: too many concurrent calls")

	// ErrRateLimited is returned when the sliding-window rate is exceeded.
	ErrRateLimited = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// LimitError is an admission rejection carrying a retry hint. It wraps
// ErrTooManyConcurrent or ErrRateLimited so callers can use errors.Is.
type LimitError struct {
	// Cause is the rejection class.
	Cause error

	// RetryAfter hints when a retry may be admitted.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return fmt.Sprintf("%s (retry after %s)", e.Cause, e.RetryAfter)
}

// Unwrap returns the rejection class.
func (e *LimitError) Unwrap() error {
	return e.Cause
}
