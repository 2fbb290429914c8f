// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package dataset downloads, parses and clusters the MovieLens ratings
// archive into the immutable movie table served by the recommender.
//
// Load runs once, synchronously, before the HTTP server starts. Any error is
// fatal to the caller; there is no partial-dataset fallback.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinecluster/internal/metrics"
	"github.com/tomtom215/cinecluster/internal/recommend"
	"github.com/tomtom215/cinecluster/internal/recommend/algorithms"
)

const (
	// MoviesFile holds movieId,title,genres.
	MoviesFile = "movies.csv"

	// RatingsFile holds userId,movieId,rating,timestamp.
	RatingsFile = "ratings.csv"

	// NoGenres is the dataset's literal marker for movies without genres.
	// It is kept as an ordinary genre column.
	NoGenres = "(no genres listed)"
)

var (
	// ErrArchiveMissing is returned when no local archive exists and no URL is configured.
	ErrArchiveMissing = errors.New("dataset archive not found")

	// ErrUnsafeArchivePath is returned for archive entries that would extract outside the target directory.
	ErrUnsafeArchivePath = errors.New("archive entry escapes extraction directory")

	// ErrMissingFile is returned when the extracted archive lacks movies.csv or ratings.csv.
	ErrMissingFile = errors.New("dataset file missing")

	// ErrNoMovies is returned when no movie survives the cold-start filter.
	ErrNoMovies = errors.New("no movies left after filtering")
)

// Config controls where the dataset comes from and how it is clustered.
type Config struct {
	URL             string
	ArchivePath     string
	ExtractDir      string
	DownloadTimeout time.Duration

	// MinRatings is the cold-start threshold; movies with fewer ratings are dropped.
	MinRatings int

	Clusters      int
	Restarts      int
	Seed          int64
	MaxIterations int
	Tolerance     float64

	// HTTPClient is used for the archive download. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// DefaultConfig returns the MovieLens small dataset with six clusters.
func DefaultConfig() Config {
	return Config{
		URL:             "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip",
		ArchivePath:     "ml-latest-small.zip",
		ExtractDir:      ".",
		DownloadTimeout: 5 * time.Minute,
		MinRatings:      20,
		Clusters:        6,
		Restarts:        10,
		Seed:            42,
		MaxIterations:   300,
		Tolerance:       1e-4,
	}
}

// Table is the clustered movie table.
type Table struct {
	// Movies are ordered by ascending movie id.
	Movies []recommend.Movie

	// Genres lists the genre feature columns in feature order.
	Genres []string

	// Clustering is the selected k-means run.
	Clustering *algorithms.KMeansResult

	// ClusterFitTook is how long k-means took across all restarts.
	ClusterFitTook time.Duration

	// DroppedSparse counts rated movies below MinRatings.
	DroppedSparse int

	// DroppedMissing counts rated movies without a metadata row.
	DroppedMissing int
}

// Load fetches the archive if needed, parses both files and builds the table.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Load(ctx context.Context, cfg Config, logger zerolog.Logger) (*Table, error) {
	logger = logger.With().Str("component", "dataset").Logger()
	started := time.Now()

	dir, err := Fetch(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}

	movies, genres, err := readMoviesFile(filepath.Join(dir, MoviesFile))
	if err != nil {
		return nil, err
	}

	stats, err := readRatingsFile(filepath.Join(dir, RatingsFile))
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("movies", len(movies)).
		Int("genres", len(genres)).
		Int("rated_movies", len(stats)).
		Msg("dataset parsed")

	table, err := Build(ctx, movies, genres, stats, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}

	took := time.Since(started)
	metrics.RecordDatasetLoad(took, len(table.Movies), table.DroppedSparse, table.DroppedMissing)
	metrics.RecordClustering(table.Clustering.Inertia, table.Clustering.Iterations, table.ClusterFitTook, table.Clustering.Sizes())

	logger.Info().
		Int("movies", len(table.Movies)).
		Int("dropped_sparse", table.DroppedSparse).
		Int("dropped_missing", table.DroppedMissing).
		Ints("cluster_sizes", table.Clustering.Sizes()).
		Float64("inertia", table.Clustering.Inertia).
		Dur("cluster_took", table.ClusterFitTook).
		Dur("took", took).
		Msg("dataset loaded")

	return table, nil
}

func readMoviesFile(path string) ([]MovieMeta, []string, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from configured directory
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrMissingFile, MoviesFile, err)
	}
	defer f.Close()

	movies, genres, err := ReadMovies(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", MoviesFile, err)
	}
	return movies, genres, nil
}

func readRatingsFile(path string) (map[int]RatingStats, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from configured directory
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingFile, RatingsFile, err)
	}
	defer f.Close()

	stats, err := ReadRatings(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", RatingsFile, err)
	}
	return stats, nil
}
