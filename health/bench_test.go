package health

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkAggregator_CheckAll measures composite check latency.
func BenchmarkAggregator_CheckAll(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("tool:%d", i)
		agg.Register(name, staticChecker(name, Healthy("ok")))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckAll(ctx)
	}
}

// BenchmarkAggregator_CheckSingle measures one named check.
func BenchmarkAggregator_CheckSingle(b *testing.B) {
	agg := NewAggregator()
	agg.Register("tool:a", staticChecker("tool:a", Healthy("ok")))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = agg.Check(ctx, "tool:a")
	}
}
