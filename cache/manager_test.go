package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/toolguard/tool"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(newTestMemory(t), NewFingerprintKeyer(), DefaultPolicy())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func cachedMeta(name string, strategy tool.KeyStrategy, ttl time.Duration) tool.Meta {
	return tool.Meta{
		Name:    name,
		Enabled: true,
		Cache: &tool.CacheConfig{
			Enabled:     true,
			TTL:         ttl,
			KeyStrategy: strategy,
		},
	}
}

func TestManager_SetThenGet(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	meta := cachedMeta("search", tool.KeyByParams, time.Minute)
	params := map[string]any{"q": "golang"}

	if _, ok := m.Get(ctx, meta, params, tool.Context{}); ok {
		t.Error("Get before Set should miss")
	}

	if err := m.Set(ctx, meta, params, tool.Context{}, map[string]any{"hits": 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := m.Get(ctx, meta, params, tool.Context{})
	if !ok {
		t.Fatal("Get after Set should hit")
	}
	result, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("cached value has type %T, want map", got)
	}
	if result["hits"] != float64(3) {
		t.Errorf("cached hits = %v, want 3", result["hits"])
	}
}

func TestManager_StaleServing(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	meta := cachedMeta("search", tool.KeyByParams, 30*time.Millisecond)
	params := map[string]any{"q": "x"}

	if err := m.Set(ctx, meta, params, tool.Context{}, "result"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Live: GetStale serves the fresh copy, not degraded.
	v, degraded, ok := m.GetStale(ctx, meta, params, tool.Context{})
	if !ok || degraded {
		t.Errorf("GetStale while live = (degraded=%v, ok=%v), want fresh hit", degraded, ok)
	}
	if v != "result" {
		t.Errorf("GetStale value = %v, want result", v)
	}

	// Past TTL but within 2x TTL: Get misses, GetStale serves degraded.
	time.Sleep(40 * time.Millisecond)
	if _, ok := m.Get(ctx, meta, params, tool.Context{}); ok {
		t.Error("Get past TTL should miss")
	}
	v, degraded, ok = m.GetStale(ctx, meta, params, tool.Context{})
	if !ok || !degraded {
		t.Errorf("GetStale past TTL = (degraded=%v, ok=%v), want degraded hit", degraded, ok)
	}
	if v != "result" {
		t.Errorf("degraded value = %v, want result", v)
	}

	// Past 2x TTL: nothing remains.
	time.Sleep(40 * time.Millisecond)
	if _, _, ok := m.GetStale(ctx, meta, params, tool.Context{}); ok {
		t.Error("GetStale past stale window should miss")
	}
}

func TestManager_UserScopedKeys(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	meta := cachedMeta("plan", tool.KeyByUser, time.Minute)
	params := map[string]any{"view": "week"}

	alice := tool.Context{UserID: "alice"}
	bob := tool.Context{UserID: "bob"}

	if err := m.Set(ctx, meta, params, alice, "alice-plan"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got, ok := m.Get(ctx, meta, params, alice); !ok || got != "alice-plan" {
		t.Errorf("alice Get = (%v, %v), want her own entry", got, ok)
	}
	if _, ok := m.Get(ctx, meta, params, bob); ok {
		t.Error("bob should not see alice's user-scoped entry")
	}
}

func TestManager_ParamsStrategySharesAcrossUsers(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	meta := cachedMeta("search", tool.KeyByParams, time.Minute)
	params := map[string]any{"q": "shared"}

	if err := m.Set(ctx, meta, params, tool.Context{UserID: "alice"}, "shared-result"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got, ok := m.Get(ctx, meta, params, tool.Context{UserID: "bob"}); !ok || got != "shared-result" {
		t.Errorf("params-keyed entry = (%v, %v), want shared across users", got, ok)
	}
}

func TestManager_CustomKeyStrategy(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	meta := tool.Meta{
		Name:    "report",
		Enabled: true,
		Cache: &tool.CacheConfig{
			Enabled:     true,
			TTL:         time.Minute,
			KeyStrategy: tool.KeyCustom,
			KeyFunc: func(params map[string]any, tc tool.Context) string {
				return tc.SessionID
			},
		},
	}

	sessionA := tool.Context{SessionID: "s-1"}
	sessionB := tool.Context{SessionID: "s-2"}

	if err := m.Set(ctx, meta, nil, sessionA, "a"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got, ok := m.Get(ctx, meta, nil, sessionA); !ok || got != "a" {
		t.Errorf("custom-keyed Get = (%v, %v)", got, ok)
	}
	if _, ok := m.Get(ctx, meta, nil, sessionB); ok {
		t.Error("distinct custom keys must not collide")
	}
}

func TestManager_DisabledToolNeverCaches(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	meta := tool.Meta{Name: "writer", Enabled: true} // no cache config

	if err := m.Set(ctx, meta, map[string]any{"q": "x"}, tool.Context{}, "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := m.Get(ctx, meta, map[string]any{"q": "x"}, tool.Context{}); ok {
		t.Error("tool without cache config should never hit")
	}
}

func TestManager_Clear(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	searchMeta := cachedMeta("search", tool.KeyByParams, time.Minute)
	planMeta := cachedMeta("plan", tool.KeyByParams, time.Minute)
	params := map[string]any{"q": "x"}

	_ = m.Set(ctx, searchMeta, params, tool.Context{}, "s")
	_ = m.Set(ctx, planMeta, params, tool.Context{}, "p")

	if err := m.Clear(ctx, "search"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, ok := m.Get(ctx, searchMeta, params, tool.Context{}); ok {
		t.Error("cleared tool should miss")
	}
	if _, ok := m.Get(ctx, planMeta, params, tool.Context{}); !ok {
		t.Error("other tools should survive a per-tool clear")
	}

	if err := m.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if _, ok := m.Get(ctx, planMeta, params, tool.Context{}); ok {
		t.Error("ClearAll should purge everything")
	}
}

func TestNewManager_NilStore(t *testing.T) {
	if _, err := NewManager(nil, nil, DefaultPolicy()); err == nil {
		t.Error("NewManager(nil store) should error")
	}
}
