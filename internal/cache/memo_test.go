// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMemoBasicOperations(t *testing.T) {
	m := NewMemo[string]()

	m.Set("key1", "value1")
	value, exists := m.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	if _, exists = m.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}

	// Peek does not count toward hits or misses
	if _, exists = m.Peek("key1"); !exists {
		t.Error("Expected Peek to find key1")
	}
	if st := m.Stats(); st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and 1 miss", st)
	}
}

func TestMemoSetIfAbsent(t *testing.T) {
	m := NewMemo[int]()

	v, stored := m.SetIfAbsent("a", 1)
	if !stored || v != 1 {
		t.Fatalf("first SetIfAbsent = (%d, %v), want (1, true)", v, stored)
	}

	v, stored = m.SetIfAbsent("a", 2)
	if stored || v != 1 {
		t.Errorf("second SetIfAbsent = (%d, %v), want (1, false)", v, stored)
	}
}

func TestMemoGetOrCompute(t *testing.T) {
	m := NewMemo[[]string]()
	calls := 0
	compute := func() []string {
		calls++
		return []string{"Toy Story (1995)"}
	}

	first, hit := m.GetOrCompute("toy", compute)
	if hit {
		t.Error("first call should be a miss")
	}
	second, hit := m.GetOrCompute("toy", compute)
	if !hit {
		t.Error("second call should be a hit")
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("cached value changed: %v vs %v", first, second)
	}
}

func TestMemoStats(t *testing.T) {
	m := NewMemo[string]()
	if rate := m.Stats().HitRate(); rate != 0 {
		t.Errorf("empty HitRate = %v, want 0", rate)
	}

	m.Set("x", "1")
	m.Get("x")
	m.Get("x")
	m.Get("y")
	m.Peek("y")

	stats := m.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 2 hits and 1 miss", stats)
	}
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys = %d, want 1", stats.TotalKeys)
	}
}

func TestMemoConcurrentAccess(t *testing.T) {
	m := NewMemo[int]()
	var computed atomic.Int64
	var wg sync.WaitGroup

	results := make([]int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := m.GetOrCompute("shared", func() int {
				return int(computed.Add(1))
			})
			results[i] = v
		}(i)
	}
	wg.Wait()

	// Every caller must observe the single stored value
	for i, v := range results {
		if v != results[0] {
			t.Fatalf("result[%d] = %d, want %d", i, v, results[0])
		}
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}
