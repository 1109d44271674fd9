package resilience

import (
	"context"
	"time"
)

// RunWithTimeout races op against the deadline and returns ErrTimeout when
// the budget elapses first. Timing out abandons the wait; the operation's
// goroutine finishes on its own and its result is discarded. The operation
// must honor ctx if it wants to stop early.
func RunWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		value, err := op(ctx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}
