// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package metrics exposes Prometheus instrumentation for the HTTP API,
// dataset loading, clustering, suggestion caching and poster resolution.
//
// Metrics are served at /metrics in Prometheus text format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Dataset Metrics
	DatasetLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_load_duration_seconds",
			Help: "Time spent fetching, parsing and clustering the dataset at startup",
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Number of movies retained in the catalog after the cold-start filter",
		},
	)

	CatalogDroppedMovies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_dropped_movies",
			Help: "Number of movies excluded from the catalog",
		},
		[]string{"reason"}, // "min_ratings", "missing_metadata"
	)

	// Clustering Metrics
	ClusterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cluster_size",
			Help: "Number of catalog movies assigned to each cluster",
		},
		[]string{"cluster"},
	)

	KMeansInertia = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kmeans_inertia",
			Help: "Within-cluster sum of squares of the selected k-means run",
		},
	)

	KMeansIterations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kmeans_iterations",
			Help: "Lloyd iterations used by the selected k-means run",
		},
	)

	KMeansFitDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kmeans_fit_duration_seconds",
			Help: "Wall time of the k-means fit across all restarts",
		},
	)

	// Suggestion Cache Metrics
	SuggestionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_hits_total",
			Help: "Total number of suggestion queries served from the memo",
		},
	)

	SuggestionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestion_cache_misses_total",
			Help: "Total number of suggestion queries that scanned the catalog",
		},
	)

	// Poster Metrics
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_lookups_total",
			Help: "Total number of poster resolutions",
		},
		[]string{"path", "outcome"}, // path: "quick", "confirm"; outcome: "resolved", "placeholder", "deferred"
	)

	PosterLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poster_lookup_duration_seconds",
			Help:    "Poster resolution latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5},
		},
		[]string{"path"},
	)

	PosterCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_cache_hits_total",
			Help: "Total number of poster answers served without calling the external API",
		},
		[]string{"tier"}, // "memory", "disk"
	)

	PosterRefineQueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poster_refine_queued_total",
			Help: "Total number of background poster confirmations accepted",
		},
	)

	PosterRefineDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_refine_dropped_total",
			Help: "Total number of background poster confirmations not queued",
		},
		[]string{"reason"}, // "queue_full", "in_flight", "stopped"
	)

	PosterRefineQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poster_refine_queue_depth",
			Help: "Current number of pending background poster confirmations",
		},
	)

	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of requests sent to the movie metadata API",
		},
		[]string{"result"}, // "ok", "no_results", "error", "status_<code>", "decode_error", "rate_limited", "no_key"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDatasetLoad records the outcome of the startup pipeline.
func RecordDatasetLoad(duration time.Duration, movies, droppedSparse, droppedMissing int) {
	DatasetLoadDuration.Set(duration.Seconds())
	CatalogMovies.Set(float64(movies))
	CatalogDroppedMovies.WithLabelValues("min_ratings").Set(float64(droppedSparse))
	CatalogDroppedMovies.WithLabelValues("missing_metadata").Set(float64(droppedMissing))
}

// RecordClustering records the selected k-means run and per-cluster sizes.
func RecordClustering(inertia float64, iterations int, took time.Duration, sizes []int) {
	KMeansInertia.Set(inertia)
	KMeansIterations.Set(float64(iterations))
	KMeansFitDuration.Set(took.Seconds())
	for i, n := range sizes {
		ClusterSize.WithLabelValues(strconv.Itoa(i)).Set(float64(n))
	}
}

// RecordSuggestionLookup records a memo hit or miss.
func RecordSuggestionLookup(hit bool) {
	if hit {
		SuggestionCacheHits.Inc()
	} else {
		SuggestionCacheMisses.Inc()
	}
}

// RecordPosterLookup records a poster resolution on the quick or confirm path.
func RecordPosterLookup(path, outcome string, duration time.Duration) {
	PosterLookups.WithLabelValues(path, outcome).Inc()
	PosterLookupDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordPosterCacheHit records an answer served from the memory or disk tier.
func RecordPosterCacheHit(tier string) {
	PosterCacheHits.WithLabelValues(tier).Inc()
}

// RecordRefineQueued records an accepted background confirmation.
func RecordRefineQueued() {
	PosterRefineQueued.Inc()
}

// RecordRefineDropped records a background confirmation that was not queued.
func RecordRefineDropped(reason string) {
	PosterRefineDropped.WithLabelValues(reason).Inc()
}

// RecordTMDBRequest records the result of one outbound search request.
func RecordTMDBRequest(result string) {
	TMDBRequests.WithLabelValues(result).Inc()
}
