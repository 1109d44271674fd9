package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/toolguard/cache"
	"github.com/jonwraymond/toolguard/tool"
)

// Example demonstrates the basic set/get cycle through the Manager.
func Example() {
	store := cache.NewMemoryStore(cache.MemoryConfig{SweepInterval: -1})
	defer store.Close()

	manager, err := cache.NewManager(store, cache.NewFingerprintKeyer(), cache.DefaultPolicy())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	meta := tool.Meta{
		Name:    "search",
		Enabled: true,
		Cache: &tool.CacheConfig{
			Enabled:     true,
			TTL:         time.Minute,
			KeyStrategy: tool.KeyByParams,
		},
	}
	params := map[string]any{"q": "golang"}
	ctx := context.Background()

	_ = manager.Set(ctx, meta, params, tool.Context{}, "ten results")

	if v, ok := manager.Get(ctx, meta, params, tool.Context{}); ok {
		fmt.Println("cached:", v)
	}

	// Output:
	// cached: ten results
}

// ExampleNewTiered shows composing the memory tier behind an unreliable
// primary. When the primary errors, the fallback serves transparently.
func ExampleNewTiered() {
	primary := cache.NewMemoryStore(cache.MemoryConfig{SweepInterval: -1})
	fallback := cache.NewMemoryStore(cache.MemoryConfig{SweepInterval: -1})
	defer primary.Close()
	defer fallback.Close()

	tiered := cache.NewTiered(primary, fallback, func(op string, err error) {
		fmt.Println("fell back on", op)
	})

	ctx := context.Background()
	_ = tiered.Set(ctx, "cache:search:abcd", []byte("result"), time.Minute, 2*time.Minute)

	if v, ok, _ := tiered.Get(ctx, "cache:search:abcd"); ok {
		fmt.Println("got:", string(v))
	}

	// Output:
	// got: result
}
