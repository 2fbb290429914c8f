// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinecluster/internal/metrics"
)

// BreakerName labels the TMDB circuit breaker in metrics.
const BreakerName = "tmdb-api"

// CircuitBreakerClient wraps a Searcher with a circuit breaker so a failing
// TMDB stops being called for a while and lookups fall back to the
// placeholder without waiting on timeouts.
//
// The breaker uses real time for its interval and timeout; tests exercise
// it through consecutive failures rather than by waiting.
type CircuitBreakerClient struct {
	next   Searcher
	cb     *gobreaker.CircuitBreaker[[]SearchResult]
	name   string
	logger zerolog.Logger
}

// NewCircuitBreakerClient wraps next. The circuit opens when at least 60% of
// at least 10 requests in a one-minute window failed, and half-opens after
// 30 seconds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCircuitBreakerClient(next Searcher, logger zerolog.Logger) *CircuitBreakerClient {
	cbc := &CircuitBreakerClient{
		next:   next,
		name:   BreakerName,
		logger: logger.With().Str("component", "circuit_breaker").Str("breaker", BreakerName).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cbc.name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	cbc.cb = gobreaker.NewCircuitBreaker[[]SearchResult](gobreaker.Settings{
		Name:        cbc.name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				cbc.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening circuit")
			}
			return shouldTrip
		},

		// Errors raised before any request reaches TMDB say nothing about its health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNoAPIKey) ||
				errors.Is(err, ErrRateLimited) ||
				errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			cbc.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return cbc
}

// SearchMovie calls the wrapped Searcher through the breaker.
func (cbc *CircuitBreakerClient) SearchMovie(ctx context.Context, query, year string) ([]SearchResult, error) {
	results, err := cbc.cb.Execute(func() ([]SearchResult, error) {
		return cbc.next.SearchMovie(ctx, query, year)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			cbc.logger.Debug().Err(err).Msg("request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return results, nil
}

// State returns the current breaker state.
func (cbc *CircuitBreakerClient) State() gobreaker.State {
	return cbc.cb.State()
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
