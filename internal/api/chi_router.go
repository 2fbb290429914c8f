// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinecluster/internal/middleware"
)

// RouterConfig describes what the router serves besides the handlers.
type RouterConfig struct {
	// PosterDir is served under PosterPrefix. Empty disables static posters.
	PosterDir    string
	PosterPrefix string
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a router.
func NewRouter(handler *Handler, mw *ChiMiddleware, cfg RouterConfig) *Router {
	if mw == nil {
		mw = NewChiMiddleware(DefaultChiMiddlewareConfig())
	}
	return &Router{handler: handler, chiMiddleware: mw, config: cfg}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is handled

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// Health checks are not rate limited so orchestrators can poll freely
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(middleware.PrometheusMetrics)
			r.Use(middleware.Compression)

			// Both spellings are accepted; clients historically send the trailing slash.
			r.Get("/suggestions", router.handler.Suggestions)
			r.Get("/suggestions/", router.handler.Suggestions)
			r.Get("/recommendations", router.handler.Recommendations)
			r.Get("/recommendations/", router.handler.Recommendations)
			r.Get("/poster_status", router.handler.PosterStatus)
			r.Get("/poster_status/", router.handler.PosterStatus)
			r.Get("/stats", router.handler.Stats)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	if router.config.PosterDir != "" && router.config.PosterPrefix != "" {
		prefix := router.config.PosterPrefix
		files := http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(router.config.PosterDir))))
		r.Handle(strings.TrimSuffix(prefix, "/")+"/*", files)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no route for " + r.URL.Path)
	})

	return r
}

// noDirListing hides directory indexes of the poster directory.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
