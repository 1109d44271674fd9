package executor

import (
	"context"
	"fmt"

	"github.com/jonwraymond/toolguard/health"
)

// HealthChecker returns a health.Checker reporting the named tool's pipeline
// condition, so a hosting application can mount per-tool health endpoints
// without reaching into executor internals.
func (e *Executor) HealthChecker(name string) health.Checker {
	return health.NewCheckerFunc("tool:"+name, func(ctx context.Context) health.Result {
		snap, err := e.Metrics(name)
		if err != nil {
			return health.Unhealthy("tool not registered", err)
		}

		details := map[string]any{
			"status":         snap.Status.String(),
			"circuit_state":  snap.Breaker.State.String(),
			"total_calls":    snap.TotalCalls,
			"error_rate":     snap.ErrorRate,
			"cache_hit_rate": snap.CacheHitRate,
		}
		if snap.Limiter != nil {
			details["active_concurrent"] = snap.Limiter.ActiveConcurrent
			details["window_count"] = snap.Limiter.WindowCount
		}

		var result health.Result
		switch snap.Status {
		case StatusUnavailable:
			result = health.Unhealthy("circuit open", nil)
		case StatusDegraded:
			result = health.Degraded(fmt.Sprintf("error rate %.0f%%, circuit %s",
				snap.ErrorRate*100, snap.Breaker.State))
		case StatusDisabled:
			result = health.Degraded("tool disabled")
		default:
			result = health.Healthy("tool serving normally")
		}
		return result.WithDetails(details)
	})
}

// RegisterHealthChecks registers a checker for every tool currently in the
// registry on the given aggregator.
func (e *Executor) RegisterHealthChecks(agg *health.Aggregator) {
	for _, name := range e.registry.Names() {
		agg.Register("tool:"+name, e.HealthChecker(name))
	}
}
