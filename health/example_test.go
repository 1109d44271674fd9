package health_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/toolguard/cache"
	"github.com/jonwraymond/toolguard/health"
)

func ExampleAggregator() {
	agg := health.NewAggregator()

	agg.Register("tool:web_search", health.NewCheckerFunc("tool:web_search",
		func(context.Context) health.Result {
			return health.Healthy("serving normally")
		}))
	agg.Register("tool:calculator", health.NewCheckerFunc("tool:calculator",
		func(context.Context) health.Result {
			return health.Degraded("circuit probing recovery")
		}))

	results := agg.CheckAll(context.Background())
	fmt.Println("overall:", agg.OverallStatus(results))
	// Output:
	// overall: degraded
}

func ExampleNewStoreChecker() {
	store := cache.NewMemoryStore(cache.MemoryConfig{SweepInterval: -1})
	defer store.Close()

	checker := health.NewStoreChecker("memory", store)
	result := checker.Check(context.Background())

	fmt.Println(checker.Name(), "is", result.Status)
	// Output:
	// memory is healthy
}
