// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package main

import (
	"context"
	"testing"

	"github.com/tomtom215/cinecluster/internal/config"
	"github.com/tomtom215/cinecluster/internal/poster"
)

func TestDatasetConfig(t *testing.T) {
	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("CLUSTER_SEED", "7")
	t.Setenv("DATASET_MIN_RATINGS", "3")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	dc := datasetConfig(cfg)
	if dc.Seed != 7 || dc.MinRatings != 3 {
		t.Errorf("datasetConfig() = %+v", dc)
	}
	if dc.Clusters != 6 || dc.Restarts != 10 {
		t.Errorf("clustering defaults not carried: clusters=%d restarts=%d", dc.Clusters, dc.Restarts)
	}
}

func TestInitPosters_NoAPIKeyUsesPlaceholder(t *testing.T) {
	t.Setenv(config.ConfigPathEnvVar, "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("POSTER_DIR", t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	resolver, err := initPosters(cfg)
	if err != nil {
		t.Fatalf("initPosters() error = %v", err)
	}

	res := resolver.Resolve(context.Background(), "Heat (1995)")
	if res.Outcome != poster.OutcomePlaceholder {
		t.Errorf("Outcome = %v, want placeholder", res.Outcome)
	}
	if res.URL != cfg.TMDB.PlaceholderURL {
		t.Errorf("URL = %q, want %q", res.URL, cfg.TMDB.PlaceholderURL)
	}
}
