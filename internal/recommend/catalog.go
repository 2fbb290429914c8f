// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package recommend

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rs/zerolog"
)

// Catalog is the immutable, clustered movie table.
type Catalog struct {
	movies      []Movie
	lowerTitles []string

	// byTitle maps a title to the row of its first occurrence.
	byTitle map[string]int

	// clusters maps a cluster id to the rows assigned to it.
	clusters map[int]*roaring.Bitmap

	duplicates int
}

// NewCatalog indexes movies in the given order. The slice is retained and
// must not be modified afterwards.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalog(movies []Movie, logger zerolog.Logger) *Catalog {
	c := &Catalog{
		movies:      movies,
		lowerTitles: make([]string, len(movies)),
		byTitle:     make(map[string]int, len(movies)),
		clusters:    make(map[int]*roaring.Bitmap),
	}

	for i, m := range movies {
		c.lowerTitles[i] = strings.ToLower(m.Title)

		if first, ok := c.byTitle[m.Title]; ok {
			c.duplicates++
			logger.Debug().
				Str("title", m.Title).
				Int("movie_id", m.ID).
				Int("first_movie_id", movies[first].ID).
				Msg("duplicate title, lookups resolve to first occurrence")
		} else {
			c.byTitle[m.Title] = i
		}

		bm, ok := c.clusters[m.Cluster]
		if !ok {
			bm = roaring.New()
			c.clusters[m.Cluster] = bm
		}
		bm.Add(uint32(i)) //nolint:gosec // catalog rows fit in uint32
	}

	if c.duplicates > 0 {
		logger.Warn().Int("duplicates", c.duplicates).Msg("catalog contains duplicate titles")
	}

	return c
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Lookup returns the first movie with exactly this title.
func (c *Catalog) Lookup(title string) (Movie, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return Movie{}, false
	}
	return c.movies[i], true
}

// Members returns the rows of cluster in ascending catalog order.
func (c *Catalog) Members(cluster int) []int {
	bm, ok := c.clusters[cluster]
	if !ok {
		return nil
	}
	rows := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		rows = append(rows, int(it.Next()))
	}
	return rows
}

// ClusterSizes returns the number of movies per cluster, indexed by cluster id.
func (c *Catalog) ClusterSizes() []int {
	maxID := -1
	for id := range c.clusters {
		if id > maxID {
			maxID = id
		}
	}
	sizes := make([]int, maxID+1)
	for id, bm := range c.clusters {
		if id >= 0 {
			sizes[id] = int(bm.GetCardinality())
		}
	}
	return sizes
}

// DuplicateTitles returns how many movies share a title with an earlier movie.
func (c *Catalog) DuplicateTitles() int {
	return c.duplicates
}
