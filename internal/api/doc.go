// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

/*
Package api exposes the recommendation engine and poster resolver over HTTP.

Endpoints (trailing slash optional):

	GET /api/suggestions/?query=&limit=       {"suggestions": [...]}
	GET /api/recommendations/?movie=&n=       {"recommendations": [{"title","mean","count","poster_url"}]}
	GET /api/poster_status/?title=            {"poster_url": "...", "status": "resolved|placeholder|unknown"}
	GET /api/stats                            engine and cache statistics
	GET /api/health/live, /api/health/ready   liveness and readiness
	GET /metrics                              Prometheus
	GET /static/posters/*                     poster directory

Domain failures never produce error statuses: unknown titles yield empty
lists and poster failures yield the placeholder. Only malformed query
parameters (400) and rate limiting (429) are reported as errors, using the
APIResponse envelope.
*/
package api
