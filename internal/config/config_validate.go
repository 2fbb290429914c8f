// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDataset(); err != nil {
		return err
	}

	if err := c.validateClustering(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateTMDB(); err != nil {
		return err
	}

	if err := c.validatePosters(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateDataset validates dataset source and filtering settings
func (c *Config) validateDataset() error {
	if c.Dataset.URL == "" && c.Dataset.ArchivePath == "" {
		return fmt.Errorf("one of DATASET_URL or DATASET_ARCHIVE_PATH is required")
	}
	if c.Dataset.URL != "" {
		if err := validateResourceURL(c.Dataset.URL, "DATASET_URL"); err != nil {
			return err
		}
	}
	if c.Dataset.MinRatings < 1 {
		return fmt.Errorf("DATASET_MIN_RATINGS must be at least 1")
	}
	if c.Dataset.DownloadTimeout <= 0 {
		return fmt.Errorf("DATASET_DOWNLOAD_TIMEOUT must be positive")
	}
	return nil
}

// validateClustering validates k-means parameters
func (c *Config) validateClustering() error {
	if c.Clustering.Clusters < 1 {
		return fmt.Errorf("CLUSTER_COUNT must be at least 1")
	}
	if c.Clustering.Restarts < 1 {
		return fmt.Errorf("CLUSTER_RESTARTS must be at least 1")
	}
	if c.Clustering.MaxIterations < 1 {
		return fmt.Errorf("CLUSTER_MAX_ITERATIONS must be at least 1")
	}
	if c.Clustering.Tolerance < 0 {
		return fmt.Errorf("CLUSTER_TOLERANCE must not be negative")
	}
	return nil
}

// validateRecommend validates request limits
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultSuggestions < 1 || r.DefaultSuggestions > r.MaxSuggestions {
		return fmt.Errorf("SUGGESTIONS_DEFAULT must be between 1 and SUGGESTIONS_MAX (%d)", r.MaxSuggestions)
	}
	if r.DefaultTopN < 1 || r.DefaultTopN > r.MaxTopN {
		return fmt.Errorf("RECOMMEND_DEFAULT_N must be between 1 and RECOMMEND_MAX_N (%d)", r.MaxTopN)
	}
	return nil
}

// validateTMDB validates the poster API settings. An empty API key is allowed.
func (c *Config) validateTMDB() error {
	if err := validateResourceURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateResourceURL(c.TMDB.ImageBaseURL, "TMDB_IMAGE_BASE_URL"); err != nil {
		return err
	}
	if c.TMDB.PlaceholderURL == "" {
		return fmt.Errorf("POSTER_PLACEHOLDER_URL is required")
	}
	if c.TMDB.QuickTimeout <= 0 || c.TMDB.ConfirmTimeout <= 0 {
		return fmt.Errorf("TMDB_QUICK_TIMEOUT and TMDB_CONFIRM_TIMEOUT must be positive")
	}
	if c.TMDB.RequestsPerSecond <= 0 || c.TMDB.Burst < 1 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must be positive and TMDB_BURST at least 1")
	}
	if containsPlaceholder(c.TMDB.APIKey) {
		return fmt.Errorf("TMDB_API_KEY contains a placeholder value; set a real key or leave it empty")
	}
	return nil
}

// validatePosters validates the poster directory and worker pool
func (c *Config) validatePosters() error {
	if c.Posters.Dir == "" {
		return fmt.Errorf("POSTER_DIR is required")
	}
	if !strings.HasPrefix(c.Posters.StaticPrefix, "/") || !strings.HasSuffix(c.Posters.StaticPrefix, "/") {
		return fmt.Errorf("POSTER_STATIC_PREFIX must start and end with '/', got: %q", c.Posters.StaticPrefix)
	}
	if c.Posters.Workers < 1 {
		return fmt.Errorf("POSTER_WORKERS must be at least 1")
	}
	if c.Posters.QueueSize < 1 {
		return fmt.Errorf("POSTER_QUEUE_SIZE must be at least 1")
	}
	if c.Posters.RequestConcurrency < 1 {
		return fmt.Errorf("POSTER_REQUEST_CONCURRENCY must be at least 1")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are values that indicate a forgotten example setting.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"PLACEHOLDER",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
