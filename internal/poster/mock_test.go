// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type searchCall struct {
	query string
	year  string
}

// mockSearcher records calls and delegates to fn.
type mockSearcher struct {
	mu    sync.Mutex
	calls []searchCall
	fn    func(ctx context.Context, query, year string) ([]SearchResult, error)
}

func (m *mockSearcher) SearchMovie(ctx context.Context, query, year string) ([]SearchResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, searchCall{query: query, year: year})
	m.mu.Unlock()
	if m.fn == nil {
		return nil, nil
	}
	return m.fn(ctx, query, year)
}

func (m *mockSearcher) Calls() []searchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]searchCall(nil), m.calls...)
}

func testPosterConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.QuickTimeout = 200 * time.Millisecond
	cfg.ConfirmTimeout = 500 * time.Millisecond
	cfg.Workers = 2
	cfg.QueueSize = 8
	return cfg
}

func newTestResolver(t *testing.T, cfg *Config, s Searcher) *Resolver {
	t.Helper()
	r, err := NewResolver(cfg, s, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return r
}

// serveRefiner runs the resolver's refiner until the test ends.
func serveRefiner(t *testing.T, r *Resolver) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Refiner().Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
