package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry represents a cached result list with expiration time
type entry struct {
	ids       []int64
	expiresAt time.Time
}

// Memory is an in-process Backend backed by a bounded LRU. Suitable for a
// single-instance deployment; a horizontally scaled service should use a
// shared-store Backend instead, since each Memory instance carries its own
// version counter.
type Memory struct {
	entries *lru.Cache[string, *entry]
	mu      sync.RWMutex
	version atomic.Int64
}

// NewMemory creates a Memory backend holding at most maxEntries result sets.
// Least recently used entries are evicted automatically.
func NewMemory(maxEntries int) (*Memory, error) {
	entries, err := lru.New[string, *entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Memory{entries: entries}, nil
}

// Version returns the current search version, initializing to 1 on first
// access. The zero value of the counter means "uninitialized"; a CAS makes
// first-wins initialization atomic.
func (m *Memory) Version() (int64, error) {
	for {
		if v := m.version.Load(); v != 0 {
			return v, nil
		}
		if m.version.CompareAndSwap(0, 1) {
			return 1, nil
		}
	}
}

// BumpVersion increments the search version by 1, initializing it first if
// needed, and returns the new value.
func (m *Memory) BumpVersion() (int64, error) {
	if _, err := m.Version(); err != nil {
		return 0, err
	}
	return m.version.Add(1), nil
}

// GetResults returns the cached ID list for (version, query), treating
// expired entries as misses and removing them.
func (m *Memory) GetResults(version int64, query string) ([]int64, bool) {
	key := Key(version, query)
	now := time.Now()

	m.mu.RLock()
	ent, found := m.entries.Get(key)
	if !found {
		m.mu.RUnlock()
		return nil, false
	}

	if now.After(ent.expiresAt) {
		m.mu.RUnlock()

		// Remove expired entry - need write lock
		m.mu.Lock()
		m.entries.Remove(key)
		m.mu.Unlock()
		return nil, false
	}

	// Copy while holding the read lock so the stored slice is never shared
	ids := make([]int64, len(ent.ids))
	copy(ids, ent.ids)
	m.mu.RUnlock()

	return ids, true
}

// PutResults stores the ID list for (version, query) with the given TTL.
// An empty list is stored like any other value.
func (m *Memory) PutResults(version int64, query string, ids []int64, ttl time.Duration) error {
	stored := make([]int64, len(ids))
	copy(stored, ids)

	ent := &entry{
		ids:       stored,
		expiresAt: time.Now().Add(ttl),
	}

	m.mu.Lock()
	m.entries.Add(Key(version, query), ent)
	m.mu.Unlock()

	return nil
}

// Len returns the number of cached result sets, expired entries included
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Len()
}
