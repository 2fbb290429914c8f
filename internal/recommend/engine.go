// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package recommend

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecluster/internal/cache"
	"github.com/tomtom215/cinecluster/internal/metrics"
)

// Engine answers suggestion and recommendation queries over a Catalog.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	catalog *Catalog

	// suggestions memoizes matches per lower-cased query, capped at MaxSuggestions.
	suggestions *cache.Memo[[]string]

	recommendCount atomic.Int64
}

// NewEngine creates an engine over catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(catalog *Catalog, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "recommend").Logger(),
		catalog:     catalog,
		suggestions: cache.NewMemo[[]string](),
	}, nil
}

// Catalog returns the underlying catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Suggest returns up to limit titles containing query, case-insensitively, in
// catalog order. An empty query returns an empty slice. Results are memoized
// by the lower-cased query; repeated calls return the same stored slice.
// Callers must not modify the returned slice.
func (e *Engine) Suggest(query string, limit int) []string {
	if query == "" {
		return []string{}
	}
	limit = clamp(limit, e.config.DefaultSuggestions, e.config.MaxSuggestions)
	normalized := strings.ToLower(query)

	matches, hit := e.suggestions.GetOrCompute(normalized, func() []string {
		return e.scan(normalized)
	})
	metrics.RecordSuggestionLookup(hit)

	if len(matches) > limit {
		return matches[:limit:limit]
	}
	return matches
}

// scan collects distinct matching titles in catalog order.
func (e *Engine) scan(normalized string) []string {
	matches := make([]string, 0, e.config.MaxSuggestions)
	seen := make(map[string]struct{})
	for i, lower := range e.catalog.lowerTitles {
		if !strings.Contains(lower, normalized) {
			continue
		}
		title := e.catalog.movies[i].Title
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		matches = append(matches, title)
		if len(matches) == e.config.MaxSuggestions {
			break
		}
	}
	return matches[:len(matches):len(matches)]
}

// Recommend returns the best-rated other movies in title's cluster. Unknown
// titles return an empty slice. Ties on mean rating keep catalog order.
func (e *Engine) Recommend(title string, topN int) []Recommendation {
	e.recommendCount.Add(1)

	movie, ok := e.catalog.Lookup(title)
	if !ok {
		e.logger.Debug().Str("title", title).Msg("recommendation requested for unknown title")
		return []Recommendation{}
	}
	topN = clamp(topN, e.config.DefaultTopN, e.config.MaxTopN)

	rows := e.catalog.Members(movie.Cluster)
	recs := make([]Recommendation, 0, len(rows))
	for _, row := range rows {
		m := e.catalog.movies[row]
		if m.Title == title {
			continue
		}
		recs = append(recs, Recommendation{Title: m.Title, Mean: m.Mean, Count: m.Count})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Mean > recs[j].Mean
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

// Stats returns catalog and suggestion cache statistics.
func (e *Engine) Stats() Stats {
	cs := e.suggestions.Stats()
	return Stats{
		Movies:           e.catalog.Len(),
		ClusterSizes:     e.catalog.ClusterSizes(),
		DuplicateTitles:  e.catalog.DuplicateTitles(),
		SuggestionKeys:   cs.TotalKeys,
		SuggestionHits:   cs.Hits,
		SuggestionMisses: cs.Misses,
		SuggestionRate:   cs.HitRate(),
		Recommendations:  e.recommendCount.Load(),
	}
}
