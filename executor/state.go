package executor

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/toolguard/observe"
	"github.com/jonwraymond/toolguard/resilience"
	"github.com/jonwraymond/toolguard/tool"
)

// toolState holds the per-tool pipeline state. Each tool gets its own
// breaker, limiter, and counters; nothing here is shared across tools.
type toolState struct {
	breaker *resilience.CircuitBreaker
	limiter *resilience.RateLimiter // nil when the tool declares no limits

	mu           sync.Mutex
	totalCalls   int64
	successCalls int64
	failedCalls  int64
	cacheHits    int64
	totalLatency time.Duration
}

// state returns the pipeline state for a tool, creating it on first use.
func (e *Executor) state(meta tool.Meta) *toolState {
	e.mu.RLock()
	st, ok := e.states[meta.Name]
	e.mu.RUnlock()
	if ok {
		return st
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if st, ok := e.states[meta.Name]; ok {
		return st
	}

	st = &toolState{
		breaker: e.newBreaker(meta.Name),
		limiter: e.newLimiter(meta),
	}
	e.states[meta.Name] = st
	return st
}

func (e *Executor) newBreaker(toolName string) *resilience.CircuitBreaker {
	cfg := e.breakerCfg
	cfg.OnStateChange = func(from, to resilience.State) {
		ctx := context.Background()
		e.inst.Metrics.RecordBreakerTransition(ctx, toolName, from.String(), to.String())
		e.inst.Logger.WithTool(toolName).Warn(ctx, "circuit state changed",
			observe.Field{Key: "from", Value: from.String()},
			observe.Field{Key: "to", Value: to.String()},
		)
	}
	return resilience.NewCircuitBreaker(cfg)
}

func (e *Executor) newLimiter(meta tool.Meta) *resilience.RateLimiter {
	rl := meta.RateLimit
	if rl == nil || (rl.MaxConcurrent <= 0 && rl.MaxPerMinute <= 0) {
		return nil
	}
	return resilience.NewRateLimiter(resilience.RateLimiterConfig{
		MaxConcurrent: rl.MaxConcurrent,
		MaxPerMinute:  rl.MaxPerMinute,
		Timeout:       e.timeoutFor(meta, Options{}),
	})
}

// recordCacheHit counts a hit as a success that never executed, so cache hit
// latency stays out of the live-execution average.
func (s *toolState) recordCacheHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCalls++
	s.successCalls++
	s.cacheHits++
}

// recordRefusal counts a call refused before the pipeline ran, such as a
// disabled tool. It touches totalCalls only.
func (s *toolState) recordRefusal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCalls++
}

// recordExecution records one pipeline execution. Cache hits never reach
// this path, so totalLatency covers live executions only.
func (s *toolState) recordExecution(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCalls++
	if success {
		s.successCalls++
	} else {
		s.failedCalls++
	}
	s.totalLatency += latency
}

func (s *toolState) resetCounters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCalls = 0
	s.successCalls = 0
	s.failedCalls = 0
	s.cacheHits = 0
	s.totalLatency = 0
}

func (s *toolState) counters() (total, success, failed, hits int64, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalCalls, s.successCalls, s.failedCalls, s.cacheHits, s.totalLatency
}
