// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package recommend

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func testMovies() []Movie {
	return []Movie{
		{ID: 1, Title: "Toy Story (1995)", Mean: 3.9, Count: 215, Cluster: 0},
		{ID: 2, Title: "Jumanji (1995)", Mean: 3.4, Count: 110, Cluster: 1},
		{ID: 3, Title: "Heat (1995)", Mean: 3.9, Count: 102, Cluster: 2},
		{ID: 6, Title: "Toy Story 2 (1999)", Mean: 3.8, Count: 97, Cluster: 0},
		{ID: 7, Title: "Story of Us, The (1999)", Mean: 3.0, Count: 25, Cluster: 0},
		{ID: 8, Title: "Jumanji (1995)", Mean: 2.0, Count: 30, Cluster: 0},
		{ID: 9, Title: "Aladdin (1992)", Mean: 4.2, Count: 183, Cluster: 0},
		{ID: 10, Title: "Casino (1995)", Mean: 3.9, Count: 82, Cluster: 2},
	}
}

func TestNewCatalog(t *testing.T) {
	c := NewCatalog(testMovies(), zerolog.Nop())

	if c.Len() != 8 {
		t.Errorf("Len() = %d, want 8", c.Len())
	}
	if c.DuplicateTitles() != 1 {
		t.Errorf("DuplicateTitles() = %d, want 1", c.DuplicateTitles())
	}

	// Duplicate titles resolve to the first occurrence
	m, ok := c.Lookup("Jumanji (1995)")
	if !ok || m.ID != 2 {
		t.Errorf("Lookup(Jumanji) = %+v, %v; want ID 2", m, ok)
	}
	if _, ok := c.Lookup("jumanji (1995)"); ok {
		t.Error("Lookup should be case-sensitive")
	}

	if got := c.Members(0); !reflect.DeepEqual(got, []int{0, 3, 4, 5, 6}) {
		t.Errorf("Members(0) = %v, want [0 3 4 5 6]", got)
	}
	if got := c.Members(99); got != nil {
		t.Errorf("Members(99) = %v, want nil", got)
	}
	if got := c.ClusterSizes(); !reflect.DeepEqual(got, []int{5, 1, 2}) {
		t.Errorf("ClusterSizes() = %v, want [5 1 2]", got)
	}
}

func TestNewCatalog_Empty(t *testing.T) {
	c := NewCatalog(nil, zerolog.Nop())
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if len(c.ClusterSizes()) != 0 {
		t.Errorf("ClusterSizes() = %v, want empty", c.ClusterSizes())
	}
}
