// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinecluster/internal/cache"
	"github.com/tomtom215/cinecluster/internal/logging"
	"github.com/tomtom215/cinecluster/internal/metrics"
)

// ErrNoPoster is returned by Lookup when no search result carries a poster.
var ErrNoPoster = errors.New("no poster found")

// Outcome classifies a poster answer.
type Outcome int

const (
	// OutcomeUnknown means nothing is known about the title yet. Only Status returns it.
	OutcomeUnknown Outcome = iota

	// OutcomeResolved carries a real poster URL, remote or local.
	OutcomeResolved

	// OutcomePlaceholder carries the placeholder image after a failed lookup.
	OutcomePlaceholder
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Source says where a Result came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceDisk   Source = "disk"
)

// Result is a poster answer. URL is empty for OutcomeUnknown.
type Result struct {
	URL     string
	Outcome Outcome
	Source  Source
}

// Resolver owns the poster memory cache, the disk store and the refinement
// queue. It is safe for concurrent use.
type Resolver struct {
	config  *Config
	search  Searcher
	store   *Store
	cache   *cache.Memo[Result]
	refiner *Refiner
	logger  zerolog.Logger
}

// NewResolver creates a resolver. The returned resolver's Refiner must be
// served (see Refiner.Serve) for quick answers to ever be confirmed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResolver(cfg *Config, search Searcher, store *Store, logger zerolog.Logger) (*Resolver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poster config: %w", err)
	}
	if search == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if store == nil {
		store = NewStore(cfg.Dir, cfg.StaticPrefix, nil)
	}

	r := &Resolver{
		config: cfg,
		search: search,
		store:  store,
		cache:  cache.NewMemo[Result](),
		logger: logger.With().Str("component", "poster").Logger(),
	}
	r.refiner = newRefiner(r, cfg.Workers, cfg.QueueSize, r.logger)
	return r, nil
}

// Refiner returns the background confirmation worker pool.
func (r *Resolver) Refiner() *Refiner {
	return r.refiner
}

// Lookup searches TMDB for title and returns the poster URL of the most
// popular result that has one. When a year is present and yields no results
// the search is retried once without it.
func (r *Resolver) Lookup(ctx context.Context, title string) (string, error) {
	key, year := ParseTitle(title)

	results, err := r.search.SearchMovie(ctx, key, year)
	if err != nil {
		return "", err
	}
	if len(results) == 0 && year != "" {
		results, err = r.search.SearchMovie(ctx, key, "")
		if err != nil {
			return "", err
		}
	}

	best, ok := bestCandidate(results)
	if !ok {
		return "", ErrNoPoster
	}
	return r.config.ImageBaseURL + best.PosterPath, nil
}

// Resolve returns a poster for title without ever failing. A cached result is
// returned as is. Otherwise a lookup bounded by the quick timeout runs, its
// result is returned uncached, and the title is queued for confirmation.
func (r *Resolver) Resolve(ctx context.Context, title string) Result {
	started := time.Now()

	if res, ok := r.cache.Get(title); ok {
		metrics.RecordPosterCacheHit("memory")
		res.Source = SourceCache
		return res
	}

	qctx, cancel := context.WithTimeout(ctx, r.config.QuickTimeout)
	url, err := r.Lookup(qctx, title)
	cancel()

	res := Result{URL: url, Outcome: OutcomeResolved, Source: SourceRemote}
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("title", title).Msg("quick poster lookup failed, using placeholder")
		res = r.placeholder()
	}
	metrics.RecordPosterLookup("quick", res.Outcome.String(), time.Since(started))

	r.refiner.Submit(title)
	return res
}

// Status reports what is known about title without calling TMDB: the memory
// cache first, then the poster directory, otherwise OutcomeUnknown.
func (r *Resolver) Status(title string) Result {
	if res, ok := r.cache.Get(title); ok {
		metrics.RecordPosterCacheHit("memory")
		res.Source = SourceCache
		return res
	}

	staticURL, ok, err := r.store.Find(title)
	if err != nil {
		r.logger.Debug().Err(err).Str("title", title).Msg("poster directory lookup failed")
		return Result{Outcome: OutcomeUnknown}
	}
	if !ok {
		return Result{Outcome: OutcomeUnknown}
	}

	metrics.RecordPosterCacheHit("disk")
	res := Result{URL: staticURL, Outcome: OutcomeResolved, Source: SourceDisk}
	// A confirmation that finished in the meantime wins.
	stored, _ := r.cache.SetIfAbsent(title, res)
	return stored
}

// confirm runs the background lookup for title and stores the outcome.
// Failures answered by TMDB store the placeholder, which is terminal for the
// title.
func (r *Resolver) confirm(ctx context.Context, title string) Result {
	started := time.Now()

	cctx, cancel := context.WithTimeout(ctx, r.config.ConfirmTimeout)
	defer cancel()

	url, err := r.Lookup(cctx, title)
	if err != nil {
		// Shutdown and local back-pressure are no verdict on the title; leave it
		// unresolved so a later Resolve submits it again.
		if ctx.Err() != nil || isDeferred(err) {
			r.logger.Debug().Err(err).Str("title", title).Msg("poster confirmation deferred")
			metrics.RecordPosterLookup("confirm", "deferred", time.Since(started))
			return Result{Outcome: OutcomeUnknown}
		}
		r.logger.Debug().Err(err).Str("title", title).Msg("poster confirmation failed, caching placeholder")
		res := r.placeholder()
		r.cache.Set(title, res)
		metrics.RecordPosterLookup("confirm", res.Outcome.String(), time.Since(started))
		return res
	}

	res := Result{URL: url, Outcome: OutcomeResolved, Source: SourceRemote}
	if r.config.Download {
		if local, derr := r.store.Download(cctx, title, url); derr != nil {
			r.logger.Warn().Err(derr).Str("title", title).Msg("poster download failed, keeping remote URL")
		} else {
			res = Result{URL: local, Outcome: OutcomeResolved, Source: SourceDisk}
		}
	}

	r.cache.Set(title, res)
	metrics.RecordPosterLookup("confirm", res.Outcome.String(), time.Since(started))
	return res
}

// isDeferred reports errors where TMDB never saw the request: an exhausted
// local rate budget or a rejecting circuit breaker.
func isDeferred(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

// cached reports whether title already has a confirmed result.
func (r *Resolver) cached(title string) bool {
	_, ok := r.cache.Peek(title)
	return ok
}

func (r *Resolver) placeholder() Result {
	return Result{URL: r.config.PlaceholderURL, Outcome: OutcomePlaceholder, Source: SourceRemote}
}

// CacheStats returns memory cache statistics.
func (r *Resolver) CacheStats() cache.Stats {
	return r.cache.Stats()
}
