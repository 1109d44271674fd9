package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/toolguard/cache"
	"github.com/jonwraymond/toolguard/observe"
	"github.com/jonwraymond/toolguard/resilience"
	"github.com/jonwraymond/toolguard/tool"
)

// ErrNilRegistry indicates the executor was built without a registry.
var ErrNilRegistry = errors.New("executor: nil registry")

// DefaultTimeout is the execution budget for tools that declare none.
const DefaultTimeout = 30 * time.Second

// Config configures an Executor. Registry is required; everything else has a
// working default.
type Config struct {
	// Registry resolves tool names to plugins. Required.
	Registry tool.Registry

	// Cache stores successful results. Nil disables caching entirely.
	Cache *cache.Manager

	// Breaker is applied to every per-tool circuit breaker.
	Breaker resilience.CircuitBreakerConfig

	// DefaultTimeout is the execution budget for tools without their own.
	// Default: 30 seconds.
	DefaultTimeout time.Duration

	// Observer supplies tracing, metrics, and logging. Nil means no telemetry.
	Observer observe.Observer

	// CollapseDuplicates collapses concurrent identical cacheable calls so a
	// stampede on one cache key runs the plugin once.
	CollapseDuplicates bool
}

// Options adjusts a single invocation.
type Options struct {
	// SkipCache bypasses both the cache read and the write-back.
	SkipCache bool

	// SkipRateLimit bypasses admission control. The breaker still applies.
	SkipRateLimit bool

	// Timeout overrides the execution budget for this call.
	Timeout time.Duration
}

// Executor runs tools through the guarded pipeline. Each tool gets its own
// circuit breaker, rate limiter, and counters.
type Executor struct {
	registry   tool.Registry
	cache      *cache.Manager
	breakerCfg resilience.CircuitBreakerConfig
	timeout    time.Duration
	collapse   bool
	inst       *observe.Instrumentation

	mu     sync.RWMutex
	states map[string]*toolState
	flight singleflight.Group
}

// New creates an Executor.
func New(cfg Config) (*Executor, error) {
	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}

	// Normalize breaker config here so retry hints can be derived from it.
	if cfg.Breaker.MaxFailures <= 0 {
		cfg.Breaker.MaxFailures = 5
	}
	if cfg.Breaker.ResetTimeout <= 0 {
		cfg.Breaker.ResetTimeout = 30 * time.Second
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultTimeout
	}

	inst := observe.NoopInstrumentation()
	if cfg.Observer != nil {
		var err error
		inst, err = observe.NewInstrumentation(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("executor: failed to build instrumentation: %w", err)
		}
	}

	return &Executor{
		registry:   cfg.Registry,
		cache:      cfg.Cache,
		breakerCfg: cfg.Breaker,
		timeout:    cfg.DefaultTimeout,
		collapse:   cfg.CollapseDuplicates,
		inst:       inst,
		states:     make(map[string]*toolState),
	}, nil
}

// Execute runs a tool with default options.
func (e *Executor) Execute(ctx context.Context, name string, params map[string]any, tc tool.Context) tool.Result {
	return e.ExecuteWith(ctx, name, params, tc, Options{})
}

// ExecuteWith runs a tool through the full pipeline.
func (e *Executor) ExecuteWith(ctx context.Context, name string, params map[string]any, tc tool.Context, opts Options) tool.Result {
	start := time.Now()

	p, err := e.registry.Lookup(name)
	if err != nil {
		return failure(start, tool.WrapError(tool.CodeNotFound, "tool not registered: "+name, err))
	}
	meta := p.Meta()
	st := e.state(meta)

	ctx, span := e.inst.Tracer.StartSpan(ctx, name)
	res := e.execute(ctx, p, meta, st, start, params, tc, opts)
	if res.Err != nil {
		e.inst.Tracer.EndSpan(span, res.Err)
	} else {
		e.inst.Tracer.EndSpan(span, nil)
	}
	return res
}

// ExecuteDegraded runs a tool like Execute, but when the tool is unavailable
// or failing it falls back to the stale cache copy, marking the result
// Degraded. Admission rejections are not softened; callers should retry those.
func (e *Executor) ExecuteDegraded(ctx context.Context, name string, params map[string]any, tc tool.Context) tool.Result {
	res := e.Execute(ctx, name, params, tc)
	if res.Success || res.Err == nil || e.cache == nil {
		return res
	}

	switch res.Err.Code {
	case tool.CodeUnavailable, tool.CodeTimeout, tool.CodeExecutionFailed:
	default:
		return res
	}

	p, err := e.registry.Lookup(name)
	if err != nil {
		return res
	}
	meta := p.Meta()

	value, degraded, ok := e.cache.GetStale(ctx, meta, params, tc)
	if !ok {
		return res
	}

	e.inst.Metrics.RecordCacheHit(ctx, name, degraded)
	return tool.Result{
		Success:   true,
		Data:      value,
		Duration:  res.Duration,
		FromCache: true,
		Degraded:  degraded,
	}
}

func (e *Executor) execute(ctx context.Context, p tool.Plugin, meta tool.Meta, st *toolState, start time.Time, params map[string]any, tc tool.Context, opts Options) tool.Result {
	name := meta.Name

	if !meta.Enabled {
		st.recordRefusal()
		e.inst.Metrics.RecordExecution(ctx, name, "disabled", 0)
		return failure(start, tool.NewError(tool.CodeDisabled, "tool is disabled: "+name))
	}

	cacheable := e.cache != nil && meta.Cache != nil && meta.Cache.Enabled && !opts.SkipCache

	if cacheable {
		if value, ok := e.cache.Get(ctx, meta, params, tc); ok {
			st.recordCacheHit()
			e.inst.Metrics.RecordCacheHit(ctx, name, false)
			return tool.Result{
				Success:   true,
				Data:      value,
				Duration:  time.Since(start),
				FromCache: true,
			}
		}
	}

	if e.collapse && cacheable {
		if key, ok := e.cache.Key(meta, params, tc); ok {
			var leader bool
			shared, _, _ := e.flight.Do(key, func() (any, error) {
				leader = true
				return e.run(ctx, p, meta, st, start, params, tc, opts, cacheable), nil
			})
			res := shared.(tool.Result)
			if !leader {
				// Followers got the leader's result without executing;
				// successes are accounted like cache hits, failures as
				// failed calls so the error rate sees every caller.
				if res.Success {
					st.recordCacheHit()
					e.inst.Metrics.RecordCacheHit(ctx, name, false)
					res.FromCache = true
				} else {
					st.recordExecution(false, 0)
					e.inst.Metrics.RecordExecution(ctx, name, "collapsed_failure", 0)
				}
				res.Duration = time.Since(start)
			}
			return res
		}
	}

	return e.run(ctx, p, meta, st, start, params, tc, opts, cacheable)
}

// run is the guarded miss path: breaker, limiter, validation, timed execution.
func (e *Executor) run(ctx context.Context, p tool.Plugin, meta tool.Meta, st *toolState, start time.Time, params map[string]any, tc tool.Context, opts Options, cacheable bool) tool.Result {
	name := meta.Name

	if err := st.breaker.Allow(); err != nil {
		st.recordExecution(false, 0)
		e.inst.Metrics.RecordRejection(ctx, name, "circuit_open")
		te := tool.WrapError(tool.CodeUnavailable, "tool temporarily unavailable: "+name, err)
		te.RetryAfter = e.breakerRetryHint(st)
		return failure(start, te)
	}

	if st.limiter != nil && !opts.SkipRateLimit {
		lease, err := st.limiter.Acquire()
		if err != nil {
			// A half-open probe that never ran must not count against the
			// circuit, and must not leave the probe slot occupied.
			st.breaker.AbandonProbe()
			st.recordExecution(false, 0)
			e.inst.Metrics.RecordRejection(ctx, name, rejectionReason(err))

			te := tool.WrapError(tool.CodeBusy, "tool is busy: "+name, err)
			var le *resilience.LimitError
			if errors.As(err, &le) {
				te.RetryAfter = le.RetryAfter
			}
			return failure(start, te)
		}
		defer lease.Release()
	}

	if v, ok := p.(tool.Validator); ok {
		if result := v.Validate(params); result != nil && !result.Valid {
			st.breaker.RecordFailure()
			st.recordExecution(false, time.Since(start))
			e.inst.Metrics.RecordExecution(ctx, name, "validation_failed", time.Since(start))
			return failure(start, tool.NewError(tool.CodeValidationFailed,
				"invalid parameters: "+strings.Join(result.Errors, "; ")))
		}
	}

	timeout := e.timeoutFor(meta, opts)
	value, err := resilience.RunWithTimeout(ctx, timeout, func(ctx context.Context) (out any, opErr error) {
		defer func() {
			if r := recover(); r != nil {
				opErr = fmt.Errorf("tool panicked: %v", r)
			}
		}()
		return p.Execute(ctx, params, tc)
	})
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The caller walked away; that says nothing about tool health.
			st.recordExecution(false, duration)
			e.inst.Metrics.RecordExecution(ctx, name, "canceled", duration)
			return failure(start, tool.WrapError(tool.CodeExecutionFailed, "execution canceled", err))
		}

		st.breaker.RecordFailure()
		st.recordExecution(false, duration)

		if errors.Is(err, resilience.ErrTimeout) {
			e.inst.Metrics.RecordExecution(ctx, name, "timeout", duration)
			return failure(start, tool.WrapError(tool.CodeTimeout,
				fmt.Sprintf("tool exceeded %s budget", timeout), err))
		}
		e.inst.Metrics.RecordExecution(ctx, name, "execution_failed", duration)
		return failure(start, tool.WrapError(tool.CodeExecutionFailed, "tool execution failed", err))
	}

	st.breaker.RecordSuccess()
	st.recordExecution(true, duration)
	e.inst.Metrics.RecordExecution(ctx, name, "success", duration)

	if cacheable {
		if cacheErr := e.cache.Set(ctx, meta, params, tc, value); cacheErr != nil {
			e.inst.Logger.WithTool(name).Warn(ctx, "failed to cache tool result",
				observe.Field{Key: "error", Value: cacheErr.Error()})
		}
	}

	return tool.Result{
		Success:  true,
		Data:     value,
		Duration: duration,
	}
}

// timeoutFor resolves the execution budget: per-call override, then the
// tool's own, then the executor default.
func (e *Executor) timeoutFor(meta tool.Meta, opts Options) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	if meta.RateLimit != nil && meta.RateLimit.Timeout > 0 {
		return meta.RateLimit.Timeout
	}
	return e.timeout
}

// breakerRetryHint estimates when the circuit may admit a call again.
func (e *Executor) breakerRetryHint(st *toolState) time.Duration {
	m := st.breaker.Metrics()
	if m.State == resilience.StateOpen && !m.OpenedAt.IsZero() {
		remaining := time.Until(m.OpenedAt.Add(e.breakerCfg.ResetTimeout))
		if remaining > time.Second {
			return remaining.Round(time.Second)
		}
	}
	return time.Second
}

func rejectionReason(err error) string {
	if errors.Is(err, resilience.ErrTooManyConcurrent) {
		return "max_concurrent"
	}
	return "rate_limited"
}

func failure(start time.Time, err *tool.Error) tool.Result {
	return tool.Result{
		Success:  false,
		Err:      err,
		Duration: time.Since(start),
	}
}
