// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package api

import (
	"context"
	"strings"
	"sync"

	"github.com/tomtom215/cinecluster/internal/cache"
	"github.com/tomtom215/cinecluster/internal/poster"
	"github.com/tomtom215/cinecluster/internal/recommend"
)

// fakeEngine is a canned Recommender.
type fakeEngine struct {
	titles []string
	recs   map[string][]recommend.Recommendation

	mu        sync.Mutex
	lastLimit int
	lastTopN  int
}

func (f *fakeEngine) Suggest(query string, limit int) []string {
	f.mu.Lock()
	f.lastLimit = limit
	f.mu.Unlock()

	out := []string{}
	if query == "" {
		return out
	}
	for _, t := range f.titles {
		if strings.Contains(strings.ToLower(t), strings.ToLower(query)) {
			out = append(out, t)
		}
	}
	return out
}

func (f *fakeEngine) Recommend(title string, topN int) []recommend.Recommendation {
	f.mu.Lock()
	f.lastTopN = topN
	f.mu.Unlock()

	src := f.recs[title]
	out := make([]recommend.Recommendation, len(src))
	copy(out, src)
	return out
}

func (f *fakeEngine) Stats() recommend.Stats {
	return recommend.Stats{Movies: len(f.titles)}
}

// fakePosters returns a URL derived from the title, or the placeholder for
// titles listed in missing.
type fakePosters struct {
	missing map[string]bool
	status  map[string]poster.Result

	mu       sync.Mutex
	resolved []string
}

func (f *fakePosters) Resolve(_ context.Context, title string) poster.Result {
	f.mu.Lock()
	f.resolved = append(f.resolved, title)
	f.mu.Unlock()

	if f.missing[title] {
		return poster.Result{URL: "https://placehold.example/poster.png", Outcome: poster.OutcomePlaceholder}
	}
	return poster.Result{URL: "https://img.example/" + title + ".jpg", Outcome: poster.OutcomeResolved}
}

func (f *fakePosters) Status(title string) poster.Result {
	if res, ok := f.status[title]; ok {
		return res
	}
	return poster.Result{Outcome: poster.OutcomeUnknown}
}

func (f *fakePosters) CacheStats() cache.Stats {
	return cache.Stats{Hits: 3, Misses: 1, TotalKeys: len(f.status)}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		titles: []string{"Toy Story (1995)", "Toy Soldiers (1991)", "Heat (1995)"},
		recs: map[string][]recommend.Recommendation{
			"Heat (1995)": {
				{Title: "Casino (1995)", Mean: 4.1, Count: 80},
				{Title: "Se7en (1995)", Mean: 4.0, Count: 120},
			},
		},
	}
}

// newTestRouter builds the full middleware stack with rate limiting disabled.
func newTestRouter(engine Recommender, posters PosterResolver, cfg RouterConfig) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	h := NewHandler(engine, posters, HandlerConfig{PosterConcurrency: 2})
	return NewRouter(h, NewChiMiddleware(mwCfg), cfg)
}
