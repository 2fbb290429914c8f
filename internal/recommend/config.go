// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package recommend

import (
	"fmt"
)

// Config contains request limits for the engine.
type Config struct {
	// DefaultSuggestions is used when Suggest is called with limit <= 0.
	DefaultSuggestions int `json:"default_suggestions"`

	// MaxSuggestions caps limit and the length of each memoized result.
	MaxSuggestions int `json:"max_suggestions"`

	// DefaultTopN is used when Recommend is called with topN <= 0.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps topN.
	MaxTopN int `json:"max_top_n"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultSuggestions: 10,
		MaxSuggestions:     50,
		DefaultTopN:        10,
		MaxTopN:            100,
	}
}

// Validate checks that limits are positive and defaults do not exceed maxima.
func (c *Config) Validate() error {
	if c.MaxSuggestions <= 0 || c.MaxTopN <= 0 {
		return fmt.Errorf("max limits must be positive")
	}
	if c.DefaultSuggestions <= 0 || c.DefaultSuggestions > c.MaxSuggestions {
		return fmt.Errorf("default_suggestions must be in [1, %d], got %d", c.MaxSuggestions, c.DefaultSuggestions)
	}
	if c.DefaultTopN <= 0 || c.DefaultTopN > c.MaxTopN {
		return fmt.Errorf("default_top_n must be in [1, %d], got %d", c.MaxTopN, c.DefaultTopN)
	}
	return nil
}

// clamp applies the default for non-positive values and caps at max.
func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
