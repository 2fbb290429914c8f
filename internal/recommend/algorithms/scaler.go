// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package algorithms

import (
	"fmt"
	"math"
	"time"
)

// zeroVarianceEpsilon treats columns with a smaller standard deviation as constant.
const zeroVarianceEpsilon = 1e-12

// StandardScaler standardizes features to zero mean and unit variance using
// the population standard deviation. Constant columns keep a scale of 1 so
// they transform to zero instead of dividing by zero.
type StandardScaler struct {
	BaseAlgorithm
	mean  []float64
	scale []float64
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{BaseAlgorithm: NewBaseAlgorithm("standard_scaler")}
}

// Fit computes per-column mean and scale.
func (s *StandardScaler) Fit(rows [][]float64) error {
	s.acquireFitLock()
	defer s.releaseFitLock()

	started := time.Now()
	dim, err := checkRows(rows)
	if err != nil {
		return err
	}

	n := float64(len(rows))
	mean := make([]float64, dim)
	for _, r := range rows {
		for j, v := range r {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	scale := make([]float64, dim)
	for _, r := range rows {
		for j, v := range r {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] < zeroVarianceEpsilon {
			scale[j] = 1
		}
	}

	s.mean = mean
	s.scale = scale
	s.markFitted(started)
	return nil
}

// Transform returns standardized copies of rows. The input is not modified.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	s.acquireReadLock()
	defer s.releaseReadLock()

	if !s.fitted {
		return nil, ErrNotFitted
	}

	out := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(s.mean) {
			return nil, fmt.Errorf("row %d has %d features, scaler was fitted on %d: %w", i, len(r), len(s.mean), ErrRaggedInput)
		}
		t := make([]float64, len(r))
		for j, v := range r {
			t[j] = (v - s.mean[j]) / s.scale[j]
		}
		out[i] = t
	}
	return out, nil
}

// FitTransform fits on rows and returns their standardized copies.
func (s *StandardScaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}
