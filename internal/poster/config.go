// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"fmt"
	"strings"
	"time"
)

// Config holds TMDB and poster cache settings.
type Config struct {
	APIKey         string
	BaseURL        string
	ImageBaseURL   string
	PlaceholderURL string

	// QuickTimeout bounds the synchronous lookup in Resolve.
	QuickTimeout time.Duration

	// ConfirmTimeout bounds each background refinement lookup.
	ConfirmTimeout time.Duration

	RequestsPerSecond float64
	Burst             int

	// Dir is the poster directory consulted by Status.
	Dir string

	// StaticPrefix is the URL prefix under which Dir is served.
	StaticPrefix string

	Workers   int
	QueueSize int

	// Download stores confirmed images in Dir.
	Download bool
}

// DefaultConfig returns TMDB defaults with the 1.5s quick and 3s confirm timeouts.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://api.themoviedb.org/3",
		ImageBaseURL:      "https://image.tmdb.org/t/p/w342",
		PlaceholderURL:    "https://via.placeholder.com/200x300?text=No+Poster",
		QuickTimeout:      1500 * time.Millisecond,
		ConfirmTimeout:    3 * time.Second,
		RequestsPerSecond: 20,
		Burst:             10,
		Dir:               "static/posters",
		StaticPrefix:      "/static/posters/",
		Workers:           4,
		QueueSize:         256,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" || c.ImageBaseURL == "" {
		return fmt.Errorf("base and image base URLs are required")
	}
	if c.PlaceholderURL == "" {
		return fmt.Errorf("placeholder URL is required")
	}
	if c.QuickTimeout <= 0 || c.ConfirmTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue size must be at least 1, got %d", c.QueueSize)
	}
	if !strings.HasSuffix(c.StaticPrefix, "/") {
		return fmt.Errorf("static prefix must end with '/', got %q", c.StaticPrefix)
	}
	return nil
}
