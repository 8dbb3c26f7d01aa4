package cache

import "sync"

// Store is the injected memoization cache used by the data-fetching layer
// for customer and branch display names, replacing ad-hoc per-view mutable
// maps so the cache can be shared, tested, and bounded.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStore is a bounded in-memory Store. When full, an arbitrary entry
// is evicted; the values it holds are cheap to re-fetch, so precision of
// eviction order does not matter.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]string
	maxEntries int
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &MemoryStore{
		entries:    make(map[string]string),
		maxEntries: maxEntries,
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		for k := range s.entries {
			delete(s.entries, k)
			break
		}
	}
	s.entries[key] = value
}

// Len returns the number of cached entries
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
