package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records pipeline outcomes for tool invocations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one invocation with its outcome class
	// (success, busy, timeout, ...) and latency.
	RecordExecution(ctx context.Context, toolName, outcome string, duration time.Duration)

	// RecordCacheHit records a cache hit; degraded marks a stale serve.
	RecordCacheHit(ctx context.Context, toolName string, degraded bool)

	// RecordRejection records an admission rejection with its reason.
	RecordRejection(ctx context.Context, toolName, reason string)

	// RecordBreakerTransition records a circuit state change.
	RecordBreakerTransition(ctx context.Context, toolName, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheHits    metric.Int64Counter
	rejections   metric.Int64Counter
	transitions  metric.Int64Counter
}

// NewMetrics creates a Metrics instance recording to the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"tool.exec.total",
		metric.WithDescription("Total number of tool invocations by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"tool.exec.duration_ms",
		metric.WithDescription("Tool execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"tool.cache.hits",
		metric.WithDescription("Tool results served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(
		"tool.admission.rejected",
		metric.WithDescription("Invocations rejected by admission control"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"tool.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		durationHist: durationHist,
		cacheHits:    cacheHits,
		rejections:   rejections,
		transitions:  transitions,
	}, nil
}

func (m *metricsImpl) RecordExecution(ctx context.Context, toolName, outcome string, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("outcome", outcome),
	)

	m.totalCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context, toolName string, degraded bool) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.Bool("degraded", degraded),
	))
}

func (m *metricsImpl) RecordRejection(ctx context.Context, toolName, reason string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("reason", reason),
	))
}

func (m *metricsImpl) RecordBreakerTransition(ctx context.Context, toolName, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// NoopMetrics returns a Metrics implementation that records nothing.
func NoopMetrics() Metrics {
	return &noopMetrics{}
}

type noopMetrics struct{}

func (*noopMetrics) RecordExecution(context.Context, string, string, time.Duration)  {}
func (*noopMetrics) RecordCacheHit(context.Context, string, bool)                    {}
func (*noopMetrics) RecordRejection(context.Context, string, string)                 {}
func (*noopMetrics) RecordBreakerTransition(context.Context, string, string, string) {}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
