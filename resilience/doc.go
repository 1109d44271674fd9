// Package resilience provides the admission and failure-tracking primitives
// that protect shared tool execution paths.
//
// # Primitives
//
//   - Circuit Breaker: a per-tool three-state failure tracker. After a run of
//     consecutive failures it fails fast for a cooldown interval, then lets a
//     single probe through to test recovery.
//
//   - Rate Limiter: per-tool admission control combining a concurrency
//     ceiling with a sliding-window call-rate ceiling. Admissions hand out a
//     Lease whose release is idempotent and backed by a failsafe timer, so a
//     caller that never releases cannot permanently leak a slot.
//
//   - Timeout: races an operation against a deadline. A timeout abandons the
//     wait; it does not terminate the operation's internal work.
//
// # Usage
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    MaxFailures:  5,
//	    ResetTimeout: time.Minute,
//	})
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    MaxConcurrent: 3,
//	    MaxPerMinute:  60,
//	    Timeout:       10 * time.Second,
//	})
//
//	if err := cb.Allow(); err != nil {
//	    return err
//	}
//	lease, err := rl.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer lease.Release()
//
//	_, err = resilience.RunWithTimeout(ctx, 10*time.Second, callTool)
//	if err != nil {
//	    cb.RecordFailure()
//	    return err
//	}
//	cb.RecordSuccess()
//
// State is process-local. Scaling a deployment horizontally requires an
// external coordinator for limiter and breaker state; this package does not
// provide one.
package resilience
