// Package health exposes the operational condition of the guarded tool
// pipeline: per-tool checkers derived from executor state, cache tier
// reachability, an aggregator, and HTTP probe handlers.
//
// A Checker reports one component's Status: Healthy, Degraded, or Unhealthy.
// The executor builds tool checkers from breaker and limiter state; this
// package adds a StoreChecker for the cache tiers and composes everything
// through the Aggregator.
//
//	agg := health.NewAggregator()
//	agg.Register("cache", health.NewStoreChecker("cache", store))
//	exec.RegisterHealthChecks(agg)
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// HTTP handlers cover the usual probe patterns:
//
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler(agg))
//	http.Handle("/health", health.DetailedHandler(agg))
package health
