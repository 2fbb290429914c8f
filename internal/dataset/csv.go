// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// MovieMeta is one row of movies.csv.
type MovieMeta struct {
	ID     int
	Title  string
	Genres []string
}

// RatingStats accumulates ratings for one movie.
type RatingStats struct {
	Sum   float64
	Count int
}

// Mean returns the average rating, or 0 without ratings.
func (s RatingStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// ReadMovies parses movies.csv. Genres are split on "|"; the returned genre
// list holds every distinct genre, sorted ascending.
func ReadMovies(r io.Reader) ([]MovieMeta, []string, error) {
	cr := csv.NewReader(r)
	cols, err := readHeader(cr, "movieId", "title", "genres")
	if err != nil {
		return nil, nil, err
	}

	var movies []MovieMeta
	genreSet := make(map[string]struct{})

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read movie row: %w", err)
		}

		id, err := strconv.Atoi(rec[cols[0]])
		if err != nil {
			line, _ := cr.FieldPos(cols[0])
			return nil, nil, fmt.Errorf("line %d: invalid movieId %q: %w", line, rec[cols[0]], err)
		}

		var genres []string
		if raw := rec[cols[2]]; raw != "" {
			for _, g := range strings.Split(raw, "|") {
				if g == "" {
					continue
				}
				genres = append(genres, g)
				genreSet[g] = struct{}{}
			}
		}

		movies = append(movies, MovieMeta{ID: id, Title: rec[cols[1]], Genres: genres})
	}

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	return movies, genres, nil
}

// ReadRatings streams ratings.csv and accumulates per-movie sums and counts.
func ReadRatings(r io.Reader) (map[int]RatingStats, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cols, err := readHeader(cr, "movieId", "rating")
	if err != nil {
		return nil, err
	}

	stats := make(map[int]RatingStats)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rating row: %w", err)
		}

		id, err := strconv.Atoi(rec[cols[0]])
		if err != nil {
			line, _ := cr.FieldPos(cols[0])
			return nil, fmt.Errorf("line %d: invalid movieId %q: %w", line, rec[cols[0]], err)
		}
		rating, err := strconv.ParseFloat(rec[cols[1]], 64)
		if err != nil {
			line, _ := cr.FieldPos(cols[1])
			return nil, fmt.Errorf("line %d: invalid rating %q: %w", line, rec[cols[1]], err)
		}

		s := stats[id]
		s.Sum += rating
		s.Count++
		stats[id] = s
	}

	return stats, nil
}

// readHeader reads the header row and returns the positions of the wanted columns.
func readHeader(cr *csv.Reader, want ...string) ([]int, error) {
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	cols := make([]int, len(want))
	for i, name := range want {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
		cols[i] = p
	}
	return cols, nil
}
