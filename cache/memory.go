package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the memory tier evicts dead entries.
const DefaultSweepInterval = 5 * time.Minute

// MemoryConfig configures the memory tier.
type MemoryConfig struct {
	// SweepInterval is how often expired entries are evicted in the
	// background. Default: 5 minutes. Negative disables the sweep.
	SweepInterval time.Duration
}

// MemoryStore is the in-process cache tier. Entries are immutable once
// written; Set overwrites wholesale.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry

	stop     chan struct{}
	stopOnce sync.Once
}

type memoryEntry struct {
	value          []byte
	storedAt       time.Time
	expiresAt      time.Time
	staleExpiresAt time.Time
	hits           int64
}

// NewMemoryStore creates a memory tier and starts its background sweep.
// Call Close to stop the sweep.
func NewMemoryStore(config MemoryConfig) *MemoryStore {
	if config.SweepInterval == 0 {
		config.SweepInterval = DefaultSweepInterval
	}

	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		stop:    make(chan struct{}),
	}

	if config.SweepInterval > 0 {
		go s.sweepLoop(config.SweepInterval)
	}

	return s
}

// Get retrieves the live value for key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		// Past primary TTL. The entry stays around for GetStale until the
		// stale TTL passes too, at which point it is reaped lazily.
		if now.After(entry.staleExpiresAt) {
			s.mu.Lock()
			delete(s.entries, key)
			s.mu.Unlock()
		}
		return nil, false, nil
	}

	s.mu.Lock()
	entry.hits++
	s.mu.Unlock()

	return entry.value, true, nil
}

// GetStale retrieves the stale copy for key.
func (s *MemoryStore) GetStale(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if time.Now().After(entry.staleExpiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key. staleTTL values below ttl are raised to ttl.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl, staleTTL time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if staleTTL < ttl {
		staleTTL = ttl
	}

	now := time.Now()
	s.mu.Lock()
	s.entries[key] = &memoryEntry{
		value:          value,
		storedAt:       now,
		expiresAt:      now.Add(ttl),
		staleExpiresAt: now.Add(staleTTL),
	}
	s.mu.Unlock()

	return nil
}

// Delete removes the given keys. Idempotent.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil
}

// DeleteMatching removes all keys matching the glob pattern.
func (s *MemoryStore) DeleteMatching(_ context.Context, pattern string) error {
	s.mu.Lock()
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
	return nil
}

// Len returns the number of resident entries, including stale-only ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the background sweep. Idempotent.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stop:
			return
		}
	}
}

// sweep evicts entries whose stale copy has expired.
func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	for key, entry := range s.entries {
		if now.After(entry.staleExpiresAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
