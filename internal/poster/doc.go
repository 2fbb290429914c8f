// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

/*
Package poster resolves poster image URLs for movie titles via TMDB.

Resolution has two latency tiers. Resolve answers synchronously with a quick
lookup bounded by a short timeout and hands the title to the Refiner, which
repeats the lookup with a longer timeout on a bounded worker pool and stores
the confirmed result in the memory cache. Later calls are served from that
cache. Per title the state moves UNRESOLVED -> QUICK_RESOLVED -> CONFIRMED,
or to FAILED (placeholder) when the confirming lookup fails.

Status never calls TMDB. It consults the memory cache, then the poster
directory on disk, and otherwise reports OutcomeUnknown, which is distinct
from OutcomePlaceholder.

TMDB failures never surface to callers: every error path degrades to the
placeholder image.
*/
package poster
