// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// PosterRefiner is the background poster confirmation pool.
// Satisfied by *poster.Refiner.
type PosterRefiner interface {
	Serve(ctx context.Context) error
	Pending() int
}

// PosterRefineService supervises the poster refiner. Cancelling the Serve
// context stops all refinement workers; queued titles are abandoned and get
// another chance on their next uncached request.
type PosterRefineService struct {
	refiner PosterRefiner
	logger  zerolog.Logger
	name    string
}

// NewPosterRefineService wraps refiner.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPosterRefineService(refiner PosterRefiner, logger zerolog.Logger) *PosterRefineService {
	return &PosterRefineService{
		refiner: refiner,
		logger:  logger.With().Str("service", "poster-refine").Logger(),
		name:    "poster-refine-service",
	}
}

// Serve implements suture.Service.
func (s *PosterRefineService) Serve(ctx context.Context) error {
	started := time.Now()
	s.logger.Info().Int("pending", s.refiner.Pending()).Msg("poster refine service starting")

	err := s.refiner.Serve(ctx)

	if ctx.Err() != nil {
		s.logger.Info().
			Int("abandoned", s.refiner.Pending()).
			Dur("uptime", time.Since(started)).
			Msg("poster refine service shutting down")
		return ctx.Err()
	}
	if err == nil {
		// Workers must only stop on cancellation; let suture restart them.
		err = errors.New("poster refiner exited unexpectedly")
	}
	s.logger.Warn().Err(err).Msg("poster refiner stopped")
	return err
}

// String returns the service name for logging.
func (s *PosterRefineService) String() string {
	return s.name
}
