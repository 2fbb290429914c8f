// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package recommend

// Movie is one clustered catalog entry.
type Movie struct {
	// ID is the dataset movie identifier.
	ID int `json:"id"`

	// Title includes the release year suffix, e.g. "Heat (1995)".
	Title string `json:"title"`

	// Mean is the average user rating.
	Mean float64 `json:"mean"`

	// Count is the number of ratings.
	Count int `json:"count"`

	// Genres lists the genre flags set for this movie.
	Genres []string `json:"genres,omitempty"`

	// Cluster is the k-means label, fixed at load time.
	Cluster int `json:"cluster"`
}

// Recommendation is one ranked result of Engine.Recommend.
type Recommendation struct {
	Title string  `json:"title"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`

	// PosterURL is filled in by the HTTP layer.
	PosterURL string `json:"poster_url,omitempty"`
}

// Stats is a snapshot of catalog and cache state.
type Stats struct {
	Movies           int     `json:"movies"`
	ClusterSizes     []int   `json:"cluster_sizes"`
	DuplicateTitles  int     `json:"duplicate_titles"`
	SuggestionKeys   int     `json:"suggestion_cache_keys"`
	SuggestionHits   int64   `json:"suggestion_cache_hits"`
	SuggestionMisses int64   `json:"suggestion_cache_misses"`
	SuggestionRate   float64 `json:"suggestion_cache_hit_rate"`
	Recommendations  int64   `json:"recommendations_served"`
}
