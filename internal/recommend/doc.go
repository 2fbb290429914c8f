// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

// Package recommend serves title suggestions and cluster-based recommendations
// over the movie catalog built at startup.
//
// # Architecture
//
// A Catalog holds the clustered movies in load order together with a title
// index and one roaring bitmap of row positions per cluster. The Engine wraps
// a Catalog and owns the suggestion memo:
//
//   - Suggest: case-insensitive substring match over titles, memoized per query
//   - Recommend: other movies in the query title's cluster, best mean rating first
//
// # Lifecycle
//
// The catalog is built once by the dataset loader and never mutated. The
// Engine is constructed in main and injected into the HTTP handlers; there is
// no package-level state. All methods are safe for concurrent use.
//
// # Duplicate Titles
//
// Lookups by title resolve to the first movie with that title in load order.
// Suggestions list each distinct title once. Recommendations never include any
// movie carrying the query title.
//
// # Usage
//
//	catalog := recommend.NewCatalog(movies, logger)
//	engine, err := recommend.NewEngine(catalog, recommend.DefaultConfig(), logger)
//	titles := engine.Suggest("toy", 10)
//	recs := engine.Recommend("Toy Story (1995)", 10)
package recommend
