// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecluster/internal/recommend"
	"github.com/tomtom215/cinecluster/internal/recommend/algorithms"
)

// Build filters, featurizes and clusters the parsed dataset.
//
// Movies with fewer than cfg.MinRatings ratings are dropped, as are rated
// movies without a metadata row. The feature vector of each remaining movie
// is [mean, count, genre flags...], standardized before k-means.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(ctx context.Context, movies []MovieMeta, genres []string, stats map[int]RatingStats, cfg Config, logger zerolog.Logger) (*Table, error) {
	meta := make(map[int]MovieMeta, len(movies))
	for _, m := range movies {
		meta[m.ID] = m
	}

	table := &Table{Genres: genres}

	ids := make([]int, 0, len(stats))
	for id, s := range stats {
		if s.Count < cfg.MinRatings {
			table.DroppedSparse++
			continue
		}
		if _, ok := meta[id]; !ok {
			table.DroppedMissing++
			logger.Debug().Int("movie_id", id).Int("ratings", s.Count).Msg("rated movie has no metadata row, dropping")
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	if table.DroppedMissing > 0 {
		logger.Warn().Int("count", table.DroppedMissing).Msg("dropped rated movies without metadata")
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w (min_ratings=%d)", ErrNoMovies, cfg.MinRatings)
	}

	genreCol := make(map[string]int, len(genres))
	for i, g := range genres {
		genreCol[g] = 2 + i
	}

	rows := make([][]float64, len(ids))
	for i, id := range ids {
		s := stats[id]
		row := make([]float64, 2+len(genres))
		row[0] = s.Mean()
		row[1] = float64(s.Count)
		for _, g := range meta[id].Genres {
			if col, ok := genreCol[g]; ok {
				row[col] = 1
			}
		}
		rows[i] = row
	}

	scaler := algorithms.NewStandardScaler()
	scaled, err := scaler.FitTransform(rows)
	if err != nil {
		return nil, fmt.Errorf("standardize features: %w", err)
	}
	logger.Debug().Str("model", scaler.Name()).Dur("took", scaler.LastFitDuration()).Msg("model fitted")

	km := algorithms.NewKMeans(algorithms.KMeansConfig{
		K:             cfg.Clusters,
		Restarts:      cfg.Restarts,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Seed:          cfg.Seed,
	})
	result, err := km.Fit(ctx, scaled)
	if err != nil {
		return nil, fmt.Errorf("cluster movies: %w", err)
	}
	logger.Debug().Str("model", km.Name()).Dur("took", km.LastFitDuration()).Int("restart", result.Restart).Msg("model fitted")

	table.Clustering = result
	table.ClusterFitTook = km.LastFitDuration()
	table.Movies = make([]recommend.Movie, len(ids))
	for i, id := range ids {
		s := stats[id]
		m := meta[id]
		table.Movies[i] = recommend.Movie{
			ID:      id,
			Title:   m.Title,
			Mean:    s.Mean(),
			Count:   s.Count,
			Genres:  m.Genres,
			Cluster: result.Labels[i],
		}
	}

	return table, nil
}
