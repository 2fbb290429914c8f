// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package api

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinecluster/internal/logging"
	"github.com/tomtom215/cinecluster/internal/poster"
	"github.com/tomtom215/cinecluster/internal/recommend"
	"github.com/tomtom215/cinecluster/internal/validation"
)

type suggestionsRequest struct {
	Query string `query:"query" validate:"max=300,nocontrol"`
	Limit int    `query:"limit" validate:"gte=0"`
}

type recommendationsRequest struct {
	Movie string `query:"movie" validate:"max=300,nocontrol"`
	TopN  int    `query:"n" validate:"gte=0"`
}

type posterStatusRequest struct {
	Title string `query:"title" validate:"max=300,nocontrol"`
}

// SuggestionsResponse is the body of GET /api/suggestions/.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// RecommendationsResponse is the body of GET /api/recommendations/.
type RecommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// PosterStatusResponse is the body of GET /api/poster_status/. PosterURL is
// empty when Status is "unknown".
type PosterStatusResponse struct {
	PosterURL string `json:"poster_url"`
	Status    string `json:"status"`
}

// Suggestions returns titles containing the query, case-insensitively.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	req := suggestionsRequest{Query: r.URL.Query().Get("query"), Limit: limit}
	if !validate(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, SuggestionsResponse{
		Suggestions: h.engine.Suggest(req.Query, req.Limit),
	})
}

// Recommendations returns the best-rated movies of the requested movie's
// cluster, each with a poster URL. Unknown movies yield an empty list.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	topN, ok := intParam(w, r, "n")
	if !ok {
		return
	}
	req := recommendationsRequest{Movie: r.URL.Query().Get("movie"), TopN: topN}
	if !validate(w, r, &req) {
		return
	}

	recs := h.engine.Recommend(req.Movie, req.TopN)
	if h.posters != nil && len(recs) > 0 {
		// Results are owned by this request; fill poster URLs in place.
		var g errgroup.Group
		g.SetLimit(h.config.PosterConcurrency)
		for i := range recs {
			g.Go(func() error {
				recs[i].PosterURL = h.posters.Resolve(r.Context(), recs[i].Title).URL
				return nil
			})
		}
		_ = g.Wait() // Resolve never fails
	}

	logging.Ctx(r.Context()).Debug().
		Str("movie", req.Movie).
		Int("results", len(recs)).
		Msg("recommendations served")

	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recs})
}

// PosterStatus reports the cached or on-disk poster for a title without
// calling TMDB.
func (h *Handler) PosterStatus(w http.ResponseWriter, r *http.Request) {
	req := posterStatusRequest{Title: r.URL.Query().Get("title")}
	if !validate(w, r, &req) {
		return
	}

	res := poster.Result{Outcome: poster.OutcomeUnknown}
	if h.posters != nil && req.Title != "" {
		res = h.posters.Status(req.Title)
	}

	writeJSON(w, http.StatusOK, PosterStatusResponse{
		PosterURL: res.URL,
		Status:    res.Outcome.String(),
	})
}

// intParam parses an optional non-negative integer query parameter. A missing
// parameter yields 0, which selects the configured default.
func intParam(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeParamError(w, r, validation.Invalid(key, "integer", raw, key+" must be an integer"))
		return 0, false
	}
	return v, true
}

// validate checks the request's query parameters and writes a 400 on failure.
func validate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if verr := validation.Params(req); verr != nil {
		writeParamError(w, r, verr)
		return false
	}
	return true
}

func writeParamError(w http.ResponseWriter, r *http.Request, verr *validation.Error) {
	NewResponseWriter(w, r).ValidationError(verr.Error(), verr.Details())
}
