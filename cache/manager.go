package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/toolguard/tool"
)

// Manager binds per-tool cache configuration to a Store and a Keyer. It is
// the surface the executor talks to: lookups never error, and storage
// failures below it degrade to "no cache" rather than failing the call.
type Manager struct {
	store  Store
	keyer  Keyer
	policy Policy
}

// NewManager creates a cache manager.
func NewManager(store Store, keyer Keyer, policy Policy) (*Manager, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if keyer == nil {
		keyer = NewFingerprintKeyer()
	}
	return &Manager{
		store:  store,
		keyer:  keyer,
		policy: policy,
	}, nil
}

// Get returns the live cached result for this invocation, or ok=false.
func (m *Manager) Get(ctx context.Context, meta tool.Meta, params map[string]any, tc tool.Context) (any, bool) {
	key, ok := m.Key(meta, params, tc)
	if !ok {
		return nil, false
	}

	raw, ok, err := m.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	return decode(raw)
}

// GetStale returns the live result if present, else the longer-lived stale
// copy. degraded is true when the stale copy was served.
func (m *Manager) GetStale(ctx context.Context, meta tool.Meta, params map[string]any, tc tool.Context) (value any, degraded, ok bool) {
	key, keyOK := m.Key(meta, params, tc)
	if !keyOK {
		return nil, false, false
	}

	if raw, found, err := m.store.Get(ctx, key); err == nil && found {
		if v, ok := decode(raw); ok {
			return v, false, true
		}
	}

	raw, found, err := m.store.GetStale(ctx, key)
	if err != nil || !found {
		return nil, false, false
	}
	v, ok := decode(raw)
	if !ok {
		return nil, false, false
	}
	return v, true, true
}

// Set stores a successful result for this invocation.
func (m *Manager) Set(ctx context.Context, meta tool.Meta, params map[string]any, tc tool.Context, value any) error {
	cfg := meta.Cache
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	key, ok := m.Key(meta, params, tc)
	if !ok {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: failed to serialize result: %w", err)
	}

	ttl := m.policy.EffectiveTTL(cfg.TTL)
	if ttl <= 0 {
		return nil
	}
	return m.store.Set(ctx, key, raw, ttl, m.policy.StaleTTL(ttl))
}

// Clear purges every entry for the named tool, in both tiers.
func (m *Manager) Clear(ctx context.Context, toolName string) error {
	return m.store.DeleteMatching(ctx, "cache:"+toolName+":*")
}

// ClearAll purges every cached tool result.
func (m *Manager) ClearAll(ctx context.Context) error {
	return m.store.DeleteMatching(ctx, "cache:*")
}

// Key derives the fingerprint for this invocation under the tool's key
// strategy. ok is false when the tool does not cache or the key is unusable.
// The executor also uses it to collapse concurrent identical invocations.
func (m *Manager) Key(meta tool.Meta, params map[string]any, tc tool.Context) (string, bool) {
	cfg := meta.Cache
	if cfg == nil || !cfg.Enabled {
		return "", false
	}

	var input any
	switch cfg.KeyStrategy {
	case tool.KeyByParams:
		input = params
	case tool.KeyByUser:
		input = map[string]any{
			"user":   tc.UserID,
			"params": params,
		}
	case tool.KeyCustom:
		custom := cfg.KeyFunc(params, tc)
		if ValidateKey(custom) != nil {
			return "", false
		}
		input = custom
	default:
		return "", false
	}

	key, err := m.keyer.Key(meta.Name, input)
	if err != nil {
		return "", false
	}
	return key, true
}

func decode(raw []byte) (any, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}
