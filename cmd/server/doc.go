// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

/*
Package main is the entry point for the Cinecluster server.

Cinecluster clusters the MovieLens catalog by rating statistics and genre,
then serves title suggestions and same-cluster recommendations with TMDB
poster URLs.

# Application Architecture

	RootSupervisor ("cinecluster")
	├── WorkerSupervisor ("worker-layer")
	│   └── Poster refiner (background TMDB confirmation)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output
 3. Dataset: download and extract the archive if needed, parse, cluster
 4. Engine: catalog and memoized suggestion index
 5. Posters: TMDB client behind a circuit breaker, resolver and refiner
 6. Supervisor Tree: Suture v4
 7. HTTP Server: Chi router

The dataset is loaded before the HTTP server starts; a failed load exits
the process.

# Example Usage

	export TMDB_API_KEY=your-tmdb-key
	export DATASET_ARCHIVE_PATH=/var/lib/cinecluster/ml-latest-small.zip
	./cinecluster

Without TMDB_API_KEY every poster resolves to the placeholder image.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests and the refiner workers stop without caching
interrupted lookups.
*/
package main
