// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package algorithms implements the feature scaling and clustering used to
// group movies at startup.
//
// # Thread Safety
//
// Fitting acquires an exclusive lock while reading fitted parameters uses a
// shared lock, so a fitted model can be read from any goroutine.
package algorithms

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrEmptyInput is returned when a model is fitted on zero rows.
	ErrEmptyInput = errors.New("algorithms: empty input")

	// ErrRaggedInput is returned when rows have different widths.
	ErrRaggedInput = errors.New("algorithms: rows have inconsistent dimensions")

	// ErrNotFitted is returned when a model is used before Fit.
	ErrNotFitted = errors.New("algorithms: model not fitted")
)

// BaseAlgorithm provides common bookkeeping for fitted models.
type BaseAlgorithm struct {
	name        string
	fitted      bool
	lastFitTook time.Duration
	mu          sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// LastFitDuration returns how long the most recent Fit took.
func (b *BaseAlgorithm) LastFitDuration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastFitTook
}

// markFitted updates the fitted state.
// Must be called while holding the fit lock (acquireFitLock).
func (b *BaseAlgorithm) markFitted(started time.Time) {
	b.fitted = true
	b.lastFitTook = time.Since(started)
}

// acquireFitLock acquires the exclusive fit lock.
func (b *BaseAlgorithm) acquireFitLock() {
	b.mu.Lock()
}

// releaseFitLock releases the exclusive fit lock.
func (b *BaseAlgorithm) releaseFitLock() {
	b.mu.Unlock()
}

// acquireReadLock acquires the shared read lock.
func (b *BaseAlgorithm) acquireReadLock() {
	b.mu.RLock()
}

// releaseReadLock releases the shared read lock.
func (b *BaseAlgorithm) releaseReadLock() {
	b.mu.RUnlock()
}

// ContextCancelled reports whether ctx is done without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// checkRows validates that rows is non-empty and rectangular and returns the width.
func checkRows(rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyInput
	}
	dim := len(rows[0])
	if dim == 0 {
		return 0, ErrEmptyInput
	}
	for _, r := range rows[1:] {
		if len(r) != dim {
			return 0, ErrRaggedInput
		}
	}
	return dim, nil
}

// squaredDistance returns the squared Euclidean distance between a and b.
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
