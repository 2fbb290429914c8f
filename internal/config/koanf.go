// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinecluster/config.yaml",
	"/etc/cinecluster/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultDatasetURL is the MovieLens small dataset archive.
const DefaultDatasetURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

// DefaultPlaceholderURL is returned whenever no poster can be resolved.
const DefaultPlaceholderURL = "https://via.placeholder.com/200x300?text=No+Poster"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Dataset: DatasetConfig{
			URL:             DefaultDatasetURL,
			ArchivePath:     "ml-latest-small.zip",
			ExtractDir:      ".",
			MinRatings:      20,
			DownloadTimeout: 5 * time.Minute,
		},
		Clustering: ClusteringConfig{
			Clusters:      6,
			Restarts:      10,
			Seed:          42,
			MaxIterations: 300,
			Tolerance:     1e-4,
		},
		Recommend: RecommendConfig{
			DefaultSuggestions: 10,
			MaxSuggestions:     50,
			DefaultTopN:        10,
			MaxTopN:            100,
		},
		TMDB: TMDBConfig{
			APIKey:            "", // Posters degrade to the placeholder without a key
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/w342",
			PlaceholderURL:    DefaultPlaceholderURL,
			QuickTimeout:      1500 * time.Millisecond,
			ConfirmTimeout:    3 * time.Second,
			RequestsPerSecond: 20,
			Burst:             10,
		},
		Posters: PosterConfig{
			Dir:                "static/posters",
			StaticPrefix:       "/static/posters/",
			Workers:            4,
			QueueSize:          256,
			Download:           false,
			RequestConcurrency: 4,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// TMDB_API_KEY -> tmdb.api_key
	// HTTP_PORT -> server.port
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Dataset
	"dataset_url":              "dataset.url",
	"dataset_archive_path":     "dataset.archive_path",
	"dataset_extract_dir":      "dataset.extract_dir",
	"dataset_min_ratings":      "dataset.min_ratings",
	"dataset_download_timeout": "dataset.download_timeout",

	// Clustering
	"cluster_count":          "clustering.clusters",
	"cluster_restarts":       "clustering.restarts",
	"cluster_seed":           "clustering.seed",
	"cluster_max_iterations": "clustering.max_iterations",
	"cluster_tolerance":      "clustering.tolerance",

	// Recommend
	"suggestions_default": "recommend.default_suggestions",
	"suggestions_max":     "recommend.max_suggestions",
	"recommend_default_n": "recommend.default_top_n",
	"recommend_max_n":     "recommend.max_top_n",

	// TMDB
	"tmdb_api_key":             "tmdb.api_key",
	"tmdb_base_url":            "tmdb.base_url",
	"tmdb_image_base_url":      "tmdb.image_base_url",
	"poster_placeholder_url":   "tmdb.placeholder_url",
	"tmdb_quick_timeout":       "tmdb.quick_timeout",
	"tmdb_confirm_timeout":     "tmdb.confirm_timeout",
	"tmdb_requests_per_second": "tmdb.requests_per_second",
	"tmdb_burst":               "tmdb.burst",

	// Posters
	"poster_dir":                 "posters.dir",
	"poster_static_prefix":       "posters.static_prefix",
	"poster_workers":             "posters.workers",
	"poster_queue_size":          "posters.queue_size",
	"poster_download":            "posters.download",
	"poster_request_concurrency": "posters.request_concurrency",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> tmdb.api_key
//   - DATASET_MIN_RATINGS -> dataset.min_ratings
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables never leak into config
	return ""
}
