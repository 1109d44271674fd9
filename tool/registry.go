package tool

import (
	"errors"
	"sort"
	"sync"
)

// Registry errors.
var (
	// ErrNotRegistered is returned when a tool name is unknown.
	ErrNotRegistered = errors.New("tool: not registered")

	// ErrAlreadyRegistered is returned on duplicate registration.
	ErrAlreadyRegistered = errors.New("tool: already registered")
)

// Registry resolves tool names to plugins.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Lookup returns ErrNotRegistered for unknown names.
type Registry interface {
	// Lookup resolves a tool by name.
	Lookup(name string) (Plugin, error)

	// Names returns the registered tool names in sorted order.
	Names() []string
}

// MemoryRegistry is an in-memory Registry. Plugin configuration is validated
// at registration time, not on first call.
type MemoryRegistry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin. The plugin's Meta is validated first.
func (r *MemoryRegistry) Register(p Plugin) error {
	meta := p.Meta()
	if err := meta.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plugins[meta.Name]; ok {
		return ErrAlreadyRegistered
	}
	r.plugins[meta.Name] = p
	return nil
}

// Lookup resolves a tool by name.
func (r *MemoryRegistry) Lookup(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	if !ok {
		return nil, ErrNotRegistered
	}
	return p, nil
}

// Names returns the registered tool names in sorted order.
func (r *MemoryRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ensure MemoryRegistry implements Registry
var _ Registry = (*MemoryRegistry)(nil)
