// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package algorithms

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStandardScaler_FitTransform(t *testing.T) {
	rows := [][]float64{
		{4.5, 20, 1},
		{3.0, 40, 1},
		{1.5, 60, 1},
	}

	s := NewStandardScaler()
	out, err := s.FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// Population std of {4.5, 3, 1.5} is sqrt(1.5)
	if want := 1.5 / math.Sqrt(1.5); !almostEqual(out[0][0], want) {
		t.Errorf("out[0][0] = %v, want %v", out[0][0], want)
	}
	// Constant column transforms to zero instead of NaN
	for i, r := range out {
		if r[2] != 0 {
			t.Errorf("out[%d][2] = %v, want 0 for constant column", i, r[2])
		}
	}

	for j := 0; j < 3; j++ {
		var sum, sq float64
		for _, r := range out {
			sum += r[j]
			sq += r[j] * r[j]
		}
		if !almostEqual(sum/3, 0) {
			t.Errorf("column %d mean = %v, want 0", j, sum/3)
		}
		if j < 2 && !almostEqual(sq/3, 1) {
			t.Errorf("column %d variance = %v, want 1", j, sq/3)
		}
	}

	// Input must not be modified
	if rows[0][0] != 4.5 {
		t.Error("FitTransform modified its input")
	}
	if s.LastFitDuration() <= 0 {
		t.Errorf("LastFitDuration() = %v, want > 0", s.LastFitDuration())
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		want error
	}{
		{"empty", nil, ErrEmptyInput},
		{"zero width", [][]float64{{}}, ErrEmptyInput},
		{"ragged", [][]float64{{1, 2}, {3}}, ErrRaggedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewStandardScaler().Fit(tt.rows); !errors.Is(err, tt.want) {
				t.Errorf("Fit() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := NewStandardScaler().Transform([][]float64{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform() before Fit error = %v, want ErrNotFitted", err)
	}
}
