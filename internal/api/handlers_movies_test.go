// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecluster/internal/poster"
)

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantTitles []string
		wantParam  string
	}{
		{
			name:       "case insensitive match",
			target:     "/api/suggestions/?query=TOY",
			wantStatus: http.StatusOK,
			wantTitles: []string{"Toy Story (1995)", "Toy Soldiers (1991)"},
		},
		{
			name:       "no trailing slash",
			target:     "/api/suggestions?query=heat",
			wantStatus: http.StatusOK,
			wantTitles: []string{"Heat (1995)"},
		},
		{
			name:       "empty query",
			target:     "/api/suggestions/",
			wantStatus: http.StatusOK,
			wantTitles: []string{},
		},
		{
			name:       "non numeric limit",
			target:     "/api/suggestions/?query=toy&limit=ten",
			wantStatus: http.StatusBadRequest,
			wantParam:  "limit",
		},
		{
			name:       "control characters",
			target:     "/api/suggestions/?query=to%00y",
			wantStatus: http.StatusBadRequest,
			wantParam:  "query",
		},
	}

	router := newTestRouter(newFakeEngine(), nil, RouterConfig{}).SetupChi()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var env APIResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
					t.Fatalf("decode envelope: %v", err)
				}
				if env.Success || env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
					t.Fatalf("unexpected error envelope: %+v", env)
				}
				if !strings.HasPrefix(env.Error.Message, tt.wantParam+" ") {
					t.Errorf("message %q should name parameter %q", env.Error.Message, tt.wantParam)
				}
				return
			}

			var resp SuggestionsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(resp.Suggestions) != len(tt.wantTitles) {
				t.Fatalf("suggestions = %v, want %v", resp.Suggestions, tt.wantTitles)
			}
			for i := range tt.wantTitles {
				if resp.Suggestions[i] != tt.wantTitles[i] {
					t.Errorf("suggestions[%d] = %q, want %q", i, resp.Suggestions[i], tt.wantTitles[i])
				}
			}
		})
	}
}

func TestSuggestions_PassesLimit(t *testing.T) {
	engine := newFakeEngine()
	router := newTestRouter(engine, nil, RouterConfig{}).SetupChi()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suggestions/?query=t&limit=7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if engine.lastLimit != 7 {
		t.Errorf("limit = %d, want 7", engine.lastLimit)
	}
}

func TestRecommendations_FillsPosters(t *testing.T) {
	posters := &fakePosters{missing: map[string]bool{"Se7en (1995)": true}}
	router := newTestRouter(newFakeEngine(), posters, RouterConfig{}).SetupChi()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/?movie=Heat+(1995)&n=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp RecommendationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Recommendations) != 2 {
		t.Fatalf("recommendations = %+v", resp.Recommendations)
	}

	// Order from the engine is preserved while posters resolve concurrently
	if resp.Recommendations[0].Title != "Casino (1995)" {
		t.Errorf("first = %q, want Casino (1995)", resp.Recommendations[0].Title)
	}
	if got := resp.Recommendations[0].PosterURL; got != "https://img.example/Casino (1995).jpg" {
		t.Errorf("poster_url = %q", got)
	}
	if got := resp.Recommendations[1].PosterURL; got != "https://placehold.example/poster.png" {
		t.Errorf("placeholder poster_url = %q", got)
	}
	if len(posters.resolved) != 2 {
		t.Errorf("resolved %d titles, want 2", len(posters.resolved))
	}
}

func TestRecommendations_UnknownMovie(t *testing.T) {
	posters := &fakePosters{}
	router := newTestRouter(newFakeEngine(), posters, RouterConfig{}).SetupChi()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations?movie=Nope", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp RecommendationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Recommendations == nil || len(resp.Recommendations) != 0 {
		t.Errorf("want empty list, got %v", resp.Recommendations)
	}
	if len(posters.resolved) != 0 {
		t.Errorf("no posters should be resolved for an empty list")
	}
}

func TestRecommendations_NegativeN(t *testing.T) {
	router := newTestRouter(newFakeEngine(), nil, RouterConfig{}).SetupChi()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations/?movie=Heat+(1995)&n=-1", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPosterStatus(t *testing.T) {
	posters := &fakePosters{status: map[string]poster.Result{
		"Heat (1995)":   {URL: "/static/posters/Heat_1995.jpg", Outcome: poster.OutcomeResolved},
		"Casino (1995)": {URL: "https://placehold.example/poster.png", Outcome: poster.OutcomePlaceholder},
	}}

	tests := []struct {
		name       string
		posters    PosterResolver
		title      string
		wantURL    string
		wantStatus string
	}{
		{"resolved", posters, "Heat+(1995)", "/static/posters/Heat_1995.jpg", "resolved"},
		{"placeholder", posters, "Casino+(1995)", "https://placehold.example/poster.png", "placeholder"},
		{"unknown", posters, "Nope", "", "unknown"},
		{"empty title", posters, "", "", "unknown"},
		{"no resolver", nil, "Heat+(1995)", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(newFakeEngine(), tt.posters, RouterConfig{}).SetupChi()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/poster_status/?title="+tt.title, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp PosterStatusResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.PosterURL != tt.wantURL || resp.Status != tt.wantStatus {
				t.Errorf("got %+v, want url=%q status=%q", resp, tt.wantURL, tt.wantStatus)
			}
		})
	}
}
