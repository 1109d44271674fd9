package executor

import (
	"time"

	"github.com/jonwraymond/toolguard/resilience"
)

// Status summarizes a tool's operational condition for callers and health
// surfaces.
type Status int

const (
	// StatusHealthy means the tool is serving normally.
	StatusHealthy Status = iota
	// StatusDegraded means the tool is serving but impaired: the circuit is
	// probing recovery or the recent error rate is high.
	StatusDegraded
	// StatusUnavailable means the circuit is open and calls fail fast.
	StatusUnavailable
	// StatusDisabled means the tool is administratively disabled.
	StatusDisabled
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnavailable:
		return "unavailable"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// degradedErrorRate is the execution error rate above which a tool is
// reported degraded even with a closed circuit.
const degradedErrorRate = 0.5

// Snapshot is a point-in-time view of one tool's pipeline statistics.
type Snapshot struct {
	Tool   string
	Status Status

	TotalCalls   int64
	SuccessCalls int64
	FailedCalls  int64
	CacheHits    int64

	// CacheHitRate is CacheHits over TotalCalls.
	CacheHitRate float64

	// ErrorRate is FailedCalls over live executions. Cache hits are excluded.
	ErrorRate float64

	// AvgLatency is the mean live-execution latency. Cache hits are excluded.
	AvgLatency time.Duration

	Breaker resilience.CircuitBreakerMetrics

	// Limiter is nil when the tool declares no admission limits.
	Limiter *resilience.RateLimiterMetrics
}

// Metrics returns the snapshot for one tool. Unknown names return
// tool.ErrNotRegistered via the registry.
func (e *Executor) Metrics(name string) (Snapshot, error) {
	p, err := e.registry.Lookup(name)
	if err != nil {
		return Snapshot{}, err
	}
	meta := p.Meta()
	st := e.state(meta)

	total, success, failed, hits, latency := st.counters()

	snap := Snapshot{
		Tool:         name,
		TotalCalls:   total,
		SuccessCalls: success,
		FailedCalls:  failed,
		CacheHits:    hits,
		Breaker:      st.breaker.Metrics(),
	}
	if st.limiter != nil {
		m := st.limiter.Metrics()
		snap.Limiter = &m
	}

	if total > 0 {
		snap.CacheHitRate = float64(hits) / float64(total)
	}
	// Cache hits count as successes but never executed; rates over live
	// executions must exclude them so a warm cache cannot mask a failing tool.
	if executions := (success - hits) + failed; executions > 0 {
		snap.ErrorRate = float64(failed) / float64(executions)
		snap.AvgLatency = latency / time.Duration(executions)
	}

	snap.Status = deriveStatus(meta.Enabled, snap.Breaker.State, snap.ErrorRate)
	return snap, nil
}

// AllMetrics returns snapshots for every registered tool.
func (e *Executor) AllMetrics() map[string]Snapshot {
	names := e.registry.Names()
	out := make(map[string]Snapshot, len(names))
	for _, name := range names {
		if snap, err := e.Metrics(name); err == nil {
			out[name] = snap
		}
	}
	return out
}

// ResetMetrics clears the counters for one tool. Breaker and limiter state
// are live protection state and are left untouched.
func (e *Executor) ResetMetrics(name string) {
	e.mu.RLock()
	st, ok := e.states[name]
	e.mu.RUnlock()
	if ok {
		st.resetCounters()
	}
}

// ResetAllMetrics clears the counters for every tool.
func (e *Executor) ResetAllMetrics() {
	e.mu.RLock()
	states := make([]*toolState, 0, len(e.states))
	for _, st := range e.states {
		states = append(states, st)
	}
	e.mu.RUnlock()

	for _, st := range states {
		st.resetCounters()
	}
}

func deriveStatus(enabled bool, breakerState resilience.State, errorRate float64) Status {
	switch {
	case !enabled:
		return StatusDisabled
	case breakerState == resilience.StateOpen:
		return StatusUnavailable
	case breakerState == resilience.StateHalfOpen, errorRate >= degradedErrorRate:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}
