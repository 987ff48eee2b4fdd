package cache

import (
	"context"
	"sync"
)

// memoryItem tracks insertion order for eviction.
type memoryItem[V any] struct {
	entry     Entry[V]
	insertIdx int64
}

// MemoryStore keeps entries for the lifetime of the process.
// Thread-safe with sync.RWMutex.
type MemoryStore[V any] struct {
	mu         sync.RWMutex
	items      map[string]memoryItem[V]
	maxEntries int
	nextIdx    int64
}

// NewMemoryStore creates a store holding at most maxEntries keys.
// A non-positive maxEntries means unbounded.
func NewMemoryStore[V any](maxEntries int) *MemoryStore[V] {
	return &MemoryStore[V]{
		items:      make(map[string]memoryItem[V]),
		maxEntries: maxEntries,
	}
}

// Load returns the entry for key or ErrNotFound.
func (s *MemoryStore[V]) Load(_ context.Context, key string) (Entry[V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[key]
	if !ok {
		return Entry[V]{}, ErrNotFound
	}
	return it.entry, nil
}

// Save stores e, evicting the oldest key when at capacity.
func (s *MemoryStore[V]) Save(_ context.Context, e Entry[V]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := memoryItem[V]{entry: e, insertIdx: s.nextIdx}
	s.nextIdx++

	if _, exists := s.items[e.Key]; exists {
		s.items[e.Key] = it
		return nil
	}

	if s.maxEntries > 0 && len(s.items) >= s.maxEntries {
		s.evictOldest()
	}

	s.items[e.Key] = it
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (s *MemoryStore[V]) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, it := range s.items {
		if oldestIdx == -1 || it.insertIdx < oldestIdx {
			oldestIdx = it.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(s.items, oldestKey)
	}
}
