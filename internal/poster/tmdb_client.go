// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinecluster/internal/metrics"
)

var (
	// ErrNoAPIKey is returned by SearchMovie when no TMDB API key is configured.
	ErrNoAPIKey = errors.New("tmdb api key not configured")

	// ErrRateLimited is returned when the local request budget cannot be
	// spent before the caller's deadline. TMDB was not contacted.
	ErrRateLimited = errors.New("tmdb request budget exhausted")
)

// maxErrorBodySize limits how much of an error response is read for reporting.
const maxErrorBodySize = 64 * 1024

// maxResponseSize bounds a decoded search response.
const maxResponseSize = 4 << 20

// readBodyForError reads a bounded prefix of the response body for error messages.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// SearchResult is one candidate from TMDB's movie search.
type SearchResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
}

type searchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// Searcher searches movies by title. Implemented by TMDBClient and
// CircuitBreakerClient, and by mocks in tests.
type Searcher interface {
	SearchMovie(ctx context.Context, query, year string) ([]SearchResult, error)
}

// TMDBClient is a rate-limited client for TMDB's search/movie endpoint.
type TMDBClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewTMDBClient creates a client. A nil httpClient uses http.DefaultClient;
// per-call deadlines come from the caller's context.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTMDBClient(cfg *Config, httpClient *http.Client, logger zerolog.Logger) *TMDBClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &TMDBClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With().Str("component", "tmdb").Logger(),
	}
}

// SearchMovie queries search/movie. An empty year omits the year filter.
func (c *TMDBClient) SearchMovie(ctx context.Context, query, year string) ([]SearchResult, error) {
	if c.apiKey == "" {
		metrics.RecordTMDBRequest("no_key")
		return nil, ErrNoAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordTMDBRequest("rate_limited")
		return nil, fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	if year != "" {
		params.Set("year", year)
	}
	endpoint := c.baseURL + "/search/movie?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordTMDBRequest("error")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordTMDBRequest(fmt.Sprintf("status_%d", resp.StatusCode))
		return nil, fmt.Errorf("tmdb returned status %d: %s", resp.StatusCode, readBodyForError(resp.Body))
	}

	var out searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		metrics.RecordTMDBRequest("decode_error")
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(out.Results) == 0 {
		metrics.RecordTMDBRequest("no_results")
	} else {
		metrics.RecordTMDBRequest("ok")
	}
	c.logger.Debug().
		Str("query", query).
		Str("year", year).
		Int("results", len(out.Results)).
		Msg("tmdb search")
	return out.Results, nil
}

// bestCandidate returns the result with a poster path and the highest
// popularity. The first one wins on equal popularity.
func bestCandidate(results []SearchResult) (SearchResult, bool) {
	var best SearchResult
	found := false
	for _, r := range results {
		if r.PosterPath == "" {
			continue
		}
		if !found || r.Popularity > best.Popularity {
			best = r
			found = true
		}
	}
	return best, found
}
