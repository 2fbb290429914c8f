// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package config loads and validates Cinecluster configuration.
package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Data: Dataset (archive location, cold-start threshold) and Clustering
//  2. Serving: Recommend limits, Server, Security (CORS, rate limiting)
//  3. Posters: TMDB client settings and the local poster directory
//  4. Observability: Logging
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Clustering ClusteringConfig `koanf:"clustering"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	TMDB       TMDBConfig       `koanf:"tmdb"`
	Posters    PosterConfig     `koanf:"posters"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// DatasetConfig controls where the ratings archive comes from and how it is filtered.
//
// Environment Variables:
//   - DATASET_URL: Archive download URL (default: MovieLens ml-latest-small)
//   - DATASET_ARCHIVE_PATH: Local archive path, reused across restarts
//   - DATASET_EXTRACT_DIR: Directory the archive is extracted into
//   - DATASET_MIN_RATINGS: Cold-start threshold (default: 20)
type DatasetConfig struct {
	URL             string        `koanf:"url"`
	ArchivePath     string        `koanf:"archive_path"`
	ExtractDir      string        `koanf:"extract_dir"`
	MinRatings      int           `koanf:"min_ratings"`
	DownloadTimeout time.Duration `koanf:"download_timeout"`
}

// ClusteringConfig holds k-means parameters.
type ClusteringConfig struct {
	// Clusters is the number of movie groups.
	// Default: 6
	Clusters int `koanf:"clusters"`

	// Restarts is the number of k-means++ initializations; the lowest inertia wins.
	// Default: 10
	Restarts int `koanf:"restarts"`

	// Seed makes clustering deterministic across restarts of the process.
	// Default: 42
	Seed int64 `koanf:"seed"`

	MaxIterations int     `koanf:"max_iterations"`
	Tolerance     float64 `koanf:"tolerance"`
}

// RecommendConfig holds request-level limits for suggestions and recommendations.
type RecommendConfig struct {
	DefaultSuggestions int `koanf:"default_suggestions"`
	MaxSuggestions     int `koanf:"max_suggestions"`
	DefaultTopN        int `koanf:"default_top_n"`
	MaxTopN            int `koanf:"max_top_n"`
}

// TMDBConfig holds settings for the external movie metadata API.
//
// Environment Variables:
//   - TMDB_API_KEY: API key (posters degrade to the placeholder when empty)
//   - TMDB_QUICK_TIMEOUT: Timeout for the synchronous lookup (default: 1.5s)
//   - TMDB_CONFIRM_TIMEOUT: Timeout for the background lookup (default: 3s)
type TMDBConfig struct {
	APIKey         string        `koanf:"api_key"`
	BaseURL        string        `koanf:"base_url"`
	ImageBaseURL   string        `koanf:"image_base_url"`
	PlaceholderURL string        `koanf:"placeholder_url"`
	QuickTimeout   time.Duration `koanf:"quick_timeout"`
	ConfirmTimeout time.Duration `koanf:"confirm_timeout"`

	// RequestsPerSecond and Burst bound outbound API traffic.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// PosterConfig holds the local poster directory and the refinement worker pool.
type PosterConfig struct {
	// Dir holds pre-downloaded images named by sanitized title.
	Dir string `koanf:"dir"`

	// StaticPrefix is the URL prefix under which Dir is served.
	StaticPrefix string `koanf:"static_prefix"`

	// Workers is the number of background refinement workers.
	Workers int `koanf:"workers"`

	// QueueSize bounds pending refinement jobs; extra jobs are dropped.
	QueueSize int `koanf:"queue_size"`

	// Download stores confirmed posters in Dir.
	Download bool `koanf:"download"`

	// RequestConcurrency bounds parallel poster lookups inside one recommendations request.
	RequestConcurrency int `koanf:"request_concurrency"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
