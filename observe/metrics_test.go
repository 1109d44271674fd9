package observe

import (
	"context"
	"sync"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

// findMetric searches for a metric by name in ResourceMetrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// TestMetrics_ExecutionCounted verifies tool.exec.total is incremented.
func TestMetrics_ExecutionCounted(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordExecution(context.Background(), "web_search", "success", 100*time.Millisecond)

	rm := collect(t, reader)
	found := findMetric(rm, "tool.exec.total")
	if found == nil {
		t.Fatal("tool.exec.total metric not found")
	}

	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}
	if len(sum.DataPoints) == 0 {
		t.Fatal("no data points")
	}
	if sum.DataPoints[0].Value != 1 {
		t.Errorf("expected count 1, got %d", sum.DataPoints[0].Value)
	}
}

// TestMetrics_ExecutionAttributes verifies tool name and outcome labels.
func TestMetrics_ExecutionAttributes(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordExecution(context.Background(), "calculator", "timeout", 10*time.Millisecond)

	rm := collect(t, reader)
	found := findMetric(rm, "tool.exec.total")
	if found == nil {
		t.Fatal("tool.exec.total metric not found")
	}

	sum := found.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) == 0 {
		t.Fatal("no data points")
	}

	var foundName, foundOutcome bool
	for iter := sum.DataPoints[0].Attributes.Iter(); iter.Next(); {
		kv := iter.Attribute()
		switch string(kv.Key) {
		case "tool.name":
			foundName = true
			if kv.Value.AsString() != "calculator" {
				t.Errorf("expected tool.name='calculator', got %q", kv.Value.AsString())
			}
		case "outcome":
			foundOutcome = true
			if kv.Value.AsString() != "timeout" {
				t.Errorf("expected outcome='timeout', got %q", kv.Value.AsString())
			}
		}
	}
	if !foundName {
		t.Error("tool.name attribute not found")
	}
	if !foundOutcome {
		t.Error("outcome attribute not found")
	}
}

// TestMetrics_DurationHistogramRecords verifies latency is recorded.
func TestMetrics_DurationHistogramRecords(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordExecution(context.Background(), "timed_tool", "success", 50*time.Millisecond)

	rm := collect(t, reader)
	found := findMetric(rm, "tool.exec.duration_ms")
	if found == nil {
		t.Fatal("tool.exec.duration_ms metric not found")
	}

	hist, ok := found.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram[float64], got %T", found.Data)
	}
	if len(hist.DataPoints) == 0 {
		t.Fatal("no data points")
	}
	if dp := hist.DataPoints[0]; dp.Sum < 40 || dp.Sum > 60 {
		t.Errorf("expected duration ~50ms, got %f", dp.Sum)
	}
}

// TestMetrics_CacheHitCounted verifies cache hit recording with degraded flag.
func TestMetrics_CacheHitCounted(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordCacheHit(context.Background(), "web_search", false)
	m.RecordCacheHit(context.Background(), "web_search", true)

	rm := collect(t, reader)
	found := findMetric(rm, "tool.cache.hits")
	if found == nil {
		t.Fatal("tool.cache.hits metric not found")
	}

	sum := found.Data.(metricdata.Sum[int64])

	// Fresh and degraded hits land on separate attribute sets.
	if len(sum.DataPoints) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(sum.DataPoints))
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("expected 2 hits total, got %d", total)
	}
}

// TestMetrics_RejectionCounted verifies admission rejections are recorded.
func TestMetrics_RejectionCounted(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordRejection(context.Background(), "busy_tool", "rate_limited")

	rm := collect(t, reader)
	found := findMetric(rm, "tool.admission.rejected")
	if found == nil {
		t.Fatal("tool.admission.rejected metric not found")
	}

	sum := found.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 1 {
		t.Error("expected 1 rejection recorded")
	}
}

// TestMetrics_BreakerTransitionCounted verifies state changes are recorded.
func TestMetrics_BreakerTransitionCounted(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordBreakerTransition(context.Background(), "flaky_tool", "closed", "open")

	rm := collect(t, reader)
	found := findMetric(rm, "tool.breaker.transitions")
	if found == nil {
		t.Fatal("tool.breaker.transitions metric not found")
	}

	sum := found.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 1 {
		t.Error("expected 1 transition recorded")
	}
}

// TestMetrics_ConcurrentRecording verifies thread safety.
func TestMetrics_ConcurrentRecording(t *testing.T) {
	m, reader := newTestMetrics(t)

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			m.RecordExecution(context.Background(), "concurrent_tool", "success", time.Millisecond)
		}()
	}
	wg.Wait()

	rm := collect(t, reader)
	found := findMetric(rm, "tool.exec.total")
	if found == nil {
		t.Fatal("tool.exec.total metric not found")
	}

	sum := found.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) == 0 {
		t.Fatal("no data points")
	}
	if sum.DataPoints[0].Value != numGoroutines {
		t.Errorf("expected count %d, got %d", numGoroutines, sum.DataPoints[0].Value)
	}
}

// TestNoopMetrics_DoesNotPanic verifies the noop implementation is inert.
func TestNoopMetrics_DoesNotPanic(t *testing.T) {
	m := NoopMetrics()

	m.RecordExecution(context.Background(), "t", "success", time.Millisecond)
	m.RecordCacheHit(context.Background(), "t", true)
	m.RecordRejection(context.Background(), "t", "circuit_open")
	m.RecordBreakerTransition(context.Background(), "t", "open", "half_open")
}
