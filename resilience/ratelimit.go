package resilience

import (
	"sync"
	"time"
)

// ConcurrencyRetryHint is the fixed retry hint for concurrency rejections.
// Slots turn over quickly, so a short constant beats computing anything.
const ConcurrencyRetryHint = 3 * time.Second

// DefaultReleaseTimeout arms the failsafe auto-release when a tool declares
// no execution budget of its own.
const DefaultReleaseTimeout = 30 * time.Second

// RateLimiterConfig configures per-tool admission control.
type RateLimiterConfig struct {
	// MaxConcurrent is the concurrency ceiling. 0 means unlimited.
	MaxConcurrent int

	// MaxPerMinute is the window call-rate ceiling. 0 means unlimited.
	MaxPerMinute int

	// Timeout arms the failsafe auto-release timer on each admission, so a
	// caller that never releases cannot permanently leak a slot.
	// Default: 30 seconds.
	Timeout time.Duration

	// Window is the sliding-window length. Default: 1 minute.
	Window time.Duration
}

// RateLimiter is the admission controller for one tool: a concurrency
// ceiling checked first, then a sliding-window call-rate ceiling. A
// concurrency rejection does not consume window capacity.
type RateLimiter struct {
	config RateLimiterConfig

	mu           sync.Mutex
	active       int
	timestamps   []time.Time
	rejected     int64
	autoReleased int64
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = DefaultReleaseTimeout
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &RateLimiter{config: config}
}

// Acquire requests admission. On success the returned Lease must be released;
// release is idempotent and a failsafe timer releases the slot after the
// configured timeout regardless. On rejection the error is a *LimitError
// carrying a retry hint.
func (rl *RateLimiter) Acquire() (*Lease, error) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.config.MaxConcurrent > 0 && rl.active >= rl.config.MaxConcurrent {
		rl.rejected++
		return nil, &LimitError{Cause: ErrTooManyConcurrent, RetryAfter: ConcurrencyRetryHint}
	}

	rl.pruneLocked(now)
	if rl.config.MaxPerMinute > 0 && len(rl.timestamps) >= rl.config.MaxPerMinute {
		rl.rejected++
		oldest := rl.timestamps[0]
		return nil, &LimitError{
			Cause:      ErrRateLimited,
			RetryAfter: ceilSeconds(oldest.Add(rl.config.Window).Sub(now)),
		}
	}

	rl.active++
	rl.timestamps = append(rl.timestamps, now)

	lease := &Lease{limiter: rl}
	lease.failsafe = time.AfterFunc(rl.config.Timeout, func() {
		lease.autoRelease()
	})
	return lease, nil
}

// Metrics returns a live utilization snapshot.
func (rl *RateLimiter) Metrics() RateLimiterMetrics {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.pruneLocked(time.Now())
	return RateLimiterMetrics{
		ActiveConcurrent: rl.active,
		MaxConcurrent:    rl.config.MaxConcurrent,
		WindowCount:      len(rl.timestamps),
		MaxPerMinute:     rl.config.MaxPerMinute,
		Rejected:         rl.rejected,
		AutoReleased:     rl.autoReleased,
	}
}

// pruneLocked drops window timestamps older than the window length.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-rl.config.Window)
	i := 0
	for i < len(rl.timestamps) && !rl.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		rl.timestamps = append(rl.timestamps[:0], rl.timestamps[i:]...)
	}
}

func (rl *RateLimiter) release(auto bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// The idempotent Lease guarantees at most one effective release per
	// admission, so active can never go negative; the guard is an invariant
	// check, not a correctness mechanism.
	if rl.active > 0 {
		rl.active--
	}
	if auto {
		rl.autoReleased++
	}
}

// Lease is an admitted slot. Release must be called when the work finishes;
// calling it more than once is a no-op.
type Lease struct {
	limiter  *RateLimiter
	failsafe *time.Timer
	once     sync.Once
}

// Release returns the slot and cancels the failsafe timer. Idempotent, and
// safe on a nil lease so unlimited tools can share the call site.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.failsafe.Stop()
		l.limiter.release(false)
	})
}

func (l *Lease) autoRelease() {
	l.once.Do(func() {
		l.limiter.release(true)
	})
}

// RateLimiterMetrics contains admission statistics.
type RateLimiterMetrics struct {
	ActiveConcurrent int
	MaxConcurrent    int
	WindowCount      int
	MaxPerMinute     int
	Rejected         int64
	AutoReleased     int64
}

// ceilSeconds rounds d up to a whole second, with a one-second floor, so
// retry hints are conservative.
func ceilSeconds(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return secs * time.Second
}
