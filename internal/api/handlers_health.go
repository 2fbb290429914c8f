// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinecluster/internal/cache"
	"github.com/tomtom215/cinecluster/internal/recommend"
)

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports ready once the catalog holds movies.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	movies := 0
	if h.engine != nil {
		movies = h.engine.Stats().Movies
	}
	data := map[string]interface{}{
		"ready":          movies > 0,
		"movies":         movies,
		"posters_online": h.posters != nil,
	}

	rw := NewResponseWriter(w, r)
	if movies == 0 {
		rw.ServiceUnavailableWith(data, "catalog is empty")
		return
	}
	rw.Success(data)
}

// StatsResponse is the data of GET /api/stats.
type StatsResponse struct {
	Engine      recommend.Stats `json:"engine"`
	PosterCache *cache.Stats    `json:"poster_cache,omitempty"`
	Uptime      float64         `json:"uptime_seconds"`
}

// Stats reports catalog and cache statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Engine: h.engine.Stats(),
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if h.posters != nil {
		ps := h.posters.CacheStats()
		resp.PosterCache = &ps
	}
	NewResponseWriter(w, r).Success(resp)
}
