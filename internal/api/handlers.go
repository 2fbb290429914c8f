// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinecluster/internal/cache"
	"github.com/tomtom215/cinecluster/internal/poster"
	"github.com/tomtom215/cinecluster/internal/recommend"
)

// Recommender is the read side of recommend.Engine.
type Recommender interface {
	Suggest(query string, limit int) []string
	Recommend(title string, topN int) []recommend.Recommendation
	Stats() recommend.Stats
}

// PosterResolver is the request-facing side of poster.Resolver.
type PosterResolver interface {
	Resolve(ctx context.Context, title string) poster.Result
	Status(title string) poster.Result
	CacheStats() cache.Stats
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// PosterConcurrency bounds concurrent poster resolutions per recommendations request.
	PosterConcurrency int
}

// Handler serves the movie endpoints. Engine and resolver are built once at
// startup and shared by all requests.
type Handler struct {
	engine    Recommender
	posters   PosterResolver
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a handler. posters may be nil, in which case
// recommendations carry no poster URLs and poster status is always unknown.
func NewHandler(engine Recommender, posters PosterResolver, cfg HandlerConfig) *Handler {
	if cfg.PosterConcurrency < 1 {
		cfg.PosterConcurrency = 4
	}
	return &Handler{
		engine:    engine,
		posters:   posters,
		config:    cfg,
		startTime: time.Now(),
	}
}
