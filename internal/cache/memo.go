// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package cache provides the thread-safe memo used for suggestion results
// and the in-memory tier of the poster cache.
package cache

import (
	"sync"
	"sync/atomic"
)

// Memo is a thread-safe, non-expiring map from string keys to values.
//
// Entries live for the process lifetime: the catalog is immutable after
// startup, so memoized answers never go stale. Reads take a shared lock and
// concurrent readers never block one another.
//
// Example:
//
//	m := cache.NewMemo[[]string]()
//	titles, hit := m.GetOrCompute("toy", func() []string { return scan("toy") })
type Memo[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	hits    atomic.Int64
	misses  atomic.Int64
}

// Stats is a point-in-time snapshot of memo usage.
type Stats struct {
	Hits      int64
	Misses    int64
	TotalKeys int
}

// HitRate returns hits / (hits + misses), or 0 when the memo was never read.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewMemo creates an empty memo.
func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{entries: make(map[string]V)}
}

// Get returns the value stored under key.
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()

	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// Peek is Get without touching the hit/miss counters.
func (m *Memo[V]) Peek(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *Memo[V]) Set(key string, value V) {
	m.mu.Lock()
	m.entries[key] = value
	m.mu.Unlock()
}

// SetIfAbsent stores value only when key is not present yet and returns the
// value that ends up in the memo. The boolean reports whether value was stored.
func (m *Memo[V]) SetIfAbsent(key string, value V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.entries[key]; ok {
		return existing, false
	}
	m.entries[key] = value
	return value, true
}

// GetOrCompute returns the memoized value for key, computing and storing it on
// a miss. compute runs outside the lock; when two callers race on the same key
// the first stored value wins and both receive it. The boolean reports a hit.
func (m *Memo[V]) GetOrCompute(key string, compute func() V) (V, bool) {
	if v, ok := m.Get(key); ok {
		return v, true
	}
	v, _ := m.SetIfAbsent(key, compute())
	return v, false
}

// Len returns the number of stored entries.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns a snapshot of hit/miss counters and key count.
func (m *Memo[V]) Stats() Stats {
	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		TotalKeys: m.Len(),
	}
}
