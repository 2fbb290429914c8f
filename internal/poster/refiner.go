// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecluster/internal/metrics"
)

// Refiner confirms quick poster answers in the background on a fixed number
// of workers fed by a bounded queue. Titles already queued or running are
// coalesced, and submissions to a full queue are dropped. The title is then
// retried on its next uncached Resolve.
type Refiner struct {
	resolver *Resolver
	workers  int
	queue    chan string
	logger   zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newRefiner(r *Resolver, workers, queueSize int, logger zerolog.Logger) *Refiner {
	return &Refiner{
		resolver: r,
		workers:  workers,
		queue:    make(chan string, queueSize),
		inflight: make(map[string]struct{}),
		logger:   logger.With().Str("service", "poster-refiner").Logger(),
	}
}

// Submit queues title for confirmation without blocking. It reports whether
// the title was queued.
func (rf *Refiner) Submit(title string) bool {
	if rf.resolver.cached(title) {
		return false
	}

	rf.mu.Lock()
	if _, busy := rf.inflight[title]; busy {
		rf.mu.Unlock()
		metrics.RecordRefineDropped("in_flight")
		return false
	}
	rf.inflight[title] = struct{}{}
	rf.mu.Unlock()

	select {
	case rf.queue <- title:
		metrics.RecordRefineQueued()
		metrics.PosterRefineQueueDepth.Set(float64(len(rf.queue)))
		return true
	default:
		rf.done(title)
		metrics.RecordRefineDropped("queue_full")
		rf.logger.Debug().Str("title", title).Msg("refine queue full, dropping")
		return false
	}
}

// Pending returns the number of queued titles.
func (rf *Refiner) Pending() int {
	return len(rf.queue)
}

// Serve runs the workers until ctx is cancelled. Queued titles left at
// shutdown are abandoned.
func (rf *Refiner) Serve(ctx context.Context) error {
	rf.logger.Info().Int("workers", rf.workers).Int("queue_size", cap(rf.queue)).Msg("poster refiner started")

	var wg sync.WaitGroup
	for i := 0; i < rf.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rf.work(ctx)
		}()
	}
	wg.Wait()

	rf.logger.Info().Int("abandoned", len(rf.queue)).Msg("poster refiner stopped")
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (rf *Refiner) String() string {
	return "poster-refiner"
}

func (rf *Refiner) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case title := <-rf.queue:
			metrics.PosterRefineQueueDepth.Set(float64(len(rf.queue)))
			rf.refine(ctx, title)
		}
	}
}

func (rf *Refiner) refine(ctx context.Context, title string) {
	defer rf.done(title)
	if rf.resolver.cached(title) {
		return
	}
	res := rf.resolver.confirm(ctx, title)
	rf.logger.Debug().Str("title", title).Str("outcome", res.Outcome.String()).Str("url", res.URL).Msg("poster confirmed")
}

func (rf *Refiner) done(title string) {
	rf.mu.Lock()
	delete(rf.inflight, title)
	rf.mu.Unlock()
}
