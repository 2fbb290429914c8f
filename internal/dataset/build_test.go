// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package dataset

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecluster/internal/recommend"
)

func testConfig(clusters int) Config {
	cfg := DefaultConfig()
	cfg.URL = ""
	cfg.Clusters = clusters
	cfg.Restarts = 3
	return cfg
}

func TestBuild_ColdStartFilter(t *testing.T) {
	movies := []MovieMeta{
		{ID: 1, Title: "A", Genres: []string{"Drama"}},
		{ID: 2, Title: "B", Genres: []string{"Drama"}},
		{ID: 3, Title: "C", Genres: []string{"Drama"}},
	}
	stats := map[int]RatingStats{
		1: {Sum: 80, Count: 20},
		2: {Sum: 60, Count: 20},
		3: {Sum: 25, Count: 5},
		// rated but absent from movies.csv
		9: {Sum: 100, Count: 25},
	}

	table, err := Build(context.Background(), movies, []string{"Drama"}, stats, testConfig(1), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(table.Movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(table.Movies))
	}
	if table.DroppedSparse != 1 || table.DroppedMissing != 1 {
		t.Errorf("dropped sparse=%d missing=%d, want 1 and 1", table.DroppedSparse, table.DroppedMissing)
	}
	if table.Movies[0].ID != 1 || table.Movies[1].ID != 2 {
		t.Errorf("movies not ordered by id: %+v", table.Movies)
	}
	if table.Movies[0].Mean != 4.0 || table.Movies[0].Count != 20 {
		t.Errorf("movie A stats = %+v", table.Movies[0])
	}

	engine, err := recommend.NewEngine(recommend.NewCatalog(table.Movies, zerolog.Nop()), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	recs := engine.Recommend("A", 10)
	if len(recs) != 1 || recs[0].Title != "B" {
		t.Errorf("Recommend(A) = %+v, want [B]", recs)
	}
	if got := engine.Recommend("C", 10); len(got) != 0 {
		t.Errorf("Recommend(C) = %+v, want empty", got)
	}
}

func TestBuild_MinRatingsBoundary(t *testing.T) {
	movies := []MovieMeta{
		{ID: 1, Title: "Anchor"},
		{ID: 2, Title: "Boundary"},
	}
	anchor := RatingStats{Sum: 100, Count: 25}

	tests := []struct {
		name        string
		count       int
		wantKept    bool
		wantDropped int
	}{
		{"one below threshold", 19, false, 1},
		{"exactly at threshold", 20, true, 0},
		{"one above threshold", 21, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := map[int]RatingStats{
				1: anchor,
				2: {Sum: 3 * float64(tt.count), Count: tt.count},
			}

			cfg := testConfig(1)
			if cfg.MinRatings != 20 {
				t.Fatalf("default MinRatings = %d, want 20", cfg.MinRatings)
			}

			table, err := Build(context.Background(), movies, nil, stats, cfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			kept := false
			for _, m := range table.Movies {
				if m.ID == 2 {
					kept = true
				}
			}
			if kept != tt.wantKept {
				t.Errorf("movie with %d ratings kept = %v, want %v", tt.count, kept, tt.wantKept)
			}
			if table.DroppedSparse != tt.wantDropped {
				t.Errorf("DroppedSparse = %d, want %d", table.DroppedSparse, tt.wantDropped)
			}
			if table.ClusterFitTook <= 0 {
				t.Errorf("ClusterFitTook = %v, want > 0", table.ClusterFitTook)
			}
		})
	}
}

func TestBuild_NoMovies(t *testing.T) {
	movies := []MovieMeta{{ID: 1, Title: "A"}}
	stats := map[int]RatingStats{1: {Sum: 4, Count: 1}}

	_, err := Build(context.Background(), movies, nil, stats, testConfig(1), zerolog.Nop())
	if !errors.Is(err, ErrNoMovies) {
		t.Errorf("Build() error = %v, want ErrNoMovies", err)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	genres := []string{"Action", "Comedy", "Drama"}
	var movies []MovieMeta
	stats := make(map[int]RatingStats)
	for i := 1; i <= 60; i++ {
		g := genres[i%3]
		movies = append(movies, MovieMeta{ID: i, Title: string(rune('A'+i%26)) + g, Genres: []string{g}})
		stats[i] = RatingStats{Sum: float64(20+i) * float64(1+i%5), Count: 20 + i}
	}

	cfg := testConfig(3)
	first, err := Build(context.Background(), movies, genres, stats, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build(context.Background(), movies, genres, stats, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !reflect.DeepEqual(first.Clustering.Labels, second.Clustering.Labels) {
		t.Error("same seed should produce identical cluster labels")
	}
	for _, m := range first.Movies {
		if m.Cluster < 0 || m.Cluster >= 3 {
			t.Errorf("movie %d cluster %d out of range", m.ID, m.Cluster)
		}
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	movies := []MovieMeta{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}
	stats := map[int]RatingStats{1: {Sum: 80, Count: 20}, 2: {Sum: 60, Count: 20}}
	if _, err := Build(ctx, movies, nil, stats, testConfig(1), zerolog.Nop()); err == nil {
		t.Error("expected error from cancelled context")
	}
}
