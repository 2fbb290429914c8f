// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/cinecluster/internal/config"
	"github.com/tomtom215/cinecluster/internal/dataset"
	"github.com/tomtom215/cinecluster/internal/logging"
	"github.com/tomtom215/cinecluster/internal/poster"
	"github.com/tomtom215/cinecluster/internal/recommend"
)

// initEngine loads and clusters the dataset, then builds the engine.
func initEngine(ctx context.Context, cfg *config.Config) (*recommend.Engine, error) {
	table, err := dataset.Load(ctx, datasetConfig(cfg), logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	catalog := recommend.NewCatalog(table.Movies, logging.WithComponent("catalog"))
	engine, err := recommend.NewEngine(catalog, &recommend.Config{
		DefaultSuggestions: cfg.Recommend.DefaultSuggestions,
		MaxSuggestions:     cfg.Recommend.MaxSuggestions,
		DefaultTopN:        cfg.Recommend.DefaultTopN,
		MaxTopN:            cfg.Recommend.MaxTopN,
	}, logging.Logger())
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("movies", catalog.Len()).
		Ints("cluster_sizes", catalog.ClusterSizes()).
		Int("dropped_sparse", table.DroppedSparse).
		Msg("Recommendation engine ready")
	return engine, nil
}

func datasetConfig(cfg *config.Config) dataset.Config {
	return dataset.Config{
		URL:             cfg.Dataset.URL,
		ArchivePath:     cfg.Dataset.ArchivePath,
		ExtractDir:      cfg.Dataset.ExtractDir,
		DownloadTimeout: cfg.Dataset.DownloadTimeout,
		MinRatings:      cfg.Dataset.MinRatings,
		Clusters:        cfg.Clustering.Clusters,
		Restarts:        cfg.Clustering.Restarts,
		Seed:            cfg.Clustering.Seed,
		MaxIterations:   cfg.Clustering.MaxIterations,
		Tolerance:       cfg.Clustering.Tolerance,
	}
}

// initPosters builds TMDB client -> circuit breaker -> resolver. The resolver's
// refiner is started by the supervisor tree.
func initPosters(cfg *config.Config) (*poster.Resolver, error) {
	pcfg := &poster.Config{
		APIKey:            cfg.TMDB.APIKey,
		BaseURL:           cfg.TMDB.BaseURL,
		ImageBaseURL:      cfg.TMDB.ImageBaseURL,
		PlaceholderURL:    cfg.TMDB.PlaceholderURL,
		QuickTimeout:      cfg.TMDB.QuickTimeout,
		ConfirmTimeout:    cfg.TMDB.ConfirmTimeout,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Burst:             cfg.TMDB.Burst,
		Dir:               cfg.Posters.Dir,
		StaticPrefix:      cfg.Posters.StaticPrefix,
		Workers:           cfg.Posters.Workers,
		QueueSize:         cfg.Posters.QueueSize,
		Download:          cfg.Posters.Download,
	}

	logger := logging.Logger()
	httpClient := &http.Client{Timeout: 30 * time.Second}

	tmdb := poster.NewTMDBClient(pcfg, httpClient, logger)
	breaker := poster.NewCircuitBreakerClient(tmdb, logger)
	store := poster.NewStore(pcfg.Dir, pcfg.StaticPrefix, httpClient)

	return poster.NewResolver(pcfg, breaker, store, logger)
}
