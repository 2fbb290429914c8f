// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// KMeansConfig holds k-means hyperparameters.
type KMeansConfig struct {
	// K is the number of clusters.
	K int

	// Restarts is the number of independent k-means++ initializations.
	// The run with the lowest inertia is kept.
	Restarts int

	// MaxIterations bounds Lloyd iterations per restart.
	MaxIterations int

	// Tolerance is the convergence threshold on total squared centroid
	// movement, relative to the mean per-feature variance of the input.
	Tolerance float64

	// Seed makes initialization reproducible.
	Seed int64

	// Workers bounds how many restarts run concurrently.
	Workers int
}

// KMeansResult is the outcome of the best restart.
type KMeansResult struct {
	// Labels holds the cluster id of each input row, in input order.
	Labels []int

	// Centroids holds K cluster centers.
	Centroids [][]float64

	// Inertia is the sum of squared distances of rows to their centroid.
	Inertia float64

	// Iterations is the number of Lloyd iterations the best restart used.
	Iterations int

	// Restart is the index of the winning initialization.
	Restart int
}

// Sizes returns the number of rows assigned to each cluster.
func (r *KMeansResult) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, l := range r.Labels {
		sizes[l]++
	}
	return sizes
}

// KMeans clusters dense feature vectors with k-means++ seeding and Lloyd
// iterations. Fitting is deterministic for a fixed Seed regardless of how
// many restarts run in parallel.
type KMeans struct {
	BaseAlgorithm
	config KMeansConfig
}

// NewKMeans creates a k-means model, applying defaults for zero values.
func NewKMeans(cfg KMeansConfig) *KMeans {
	if cfg.Restarts <= 0 {
		cfg.Restarts = 10
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 300
	}
	if cfg.Tolerance < 0 {
		cfg.Tolerance = 1e-4
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return &KMeans{
		BaseAlgorithm: NewBaseAlgorithm("kmeans"),
		config:        cfg,
	}
}

// Fit clusters rows into K groups and returns the lowest-inertia run.
func (k *KMeans) Fit(ctx context.Context, rows [][]float64) (*KMeansResult, error) {
	k.acquireFitLock()
	defer k.releaseFitLock()

	started := time.Now()
	dim, err := checkRows(rows)
	if err != nil {
		return nil, err
	}
	if k.config.K <= 0 {
		return nil, fmt.Errorf("kmeans: K must be positive, got %d", k.config.K)
	}
	if k.config.K > len(rows) {
		return nil, fmt.Errorf("kmeans: K=%d exceeds number of rows %d", k.config.K, len(rows))
	}

	tol := k.config.Tolerance * meanVariance(rows, dim)

	// Per-restart seeds are drawn up front so parallel scheduling cannot
	// change which initialization each restart sees.
	//nolint:gosec // G404: math/rand is acceptable for clustering initialization
	master := rand.New(rand.NewSource(k.config.Seed))
	seeds := make([]int64, k.config.Restarts)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	runs := make([]*KMeansResult, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(k.config.Workers)
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := k.runOnce(gctx, rows, dim, tol, seed)
			if err != nil {
				return err
			}
			res.Restart = i
			runs[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Strict comparison keeps the earliest restart on ties.
	best := runs[0]
	for _, r := range runs[1:] {
		if r.Inertia < best.Inertia {
			best = r
		}
	}

	k.markFitted(started)
	return best, nil
}

// runOnce performs one k-means++ initialization followed by Lloyd iterations.
func (k *KMeans) runOnce(ctx context.Context, rows [][]float64, dim int, tol float64, seed int64) (*KMeansResult, error) {
	//nolint:gosec // G404: math/rand is acceptable for clustering initialization
	rng := rand.New(rand.NewSource(seed))
	centers := kmeansPlusPlus(rows, k.config.K, rng)
	labels := make([]int, len(rows))

	iterations := 0
	for iter := 0; iter < k.config.MaxIterations; iter++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		assign(rows, centers, labels)
		next := recomputeCenters(rows, labels, centers, dim)

		var shift float64
		for c := range centers {
			shift += squaredDistance(centers[c], next[c])
		}
		centers = next
		iterations = iter + 1

		if shift <= tol {
			break
		}
	}

	// Final assignment keeps labels consistent with the returned centers.
	inertia := assign(rows, centers, labels)

	return &KMeansResult{
		Labels:     labels,
		Centroids:  centers,
		Inertia:    inertia,
		Iterations: iterations,
	}, nil
}

// kmeansPlusPlus picks k initial centers with greedy k-means++: each step
// samples several candidates proportional to squared distance and keeps the
// one that lowers the potential the most.
func kmeansPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	localTrials := 2 + int(math.Log(float64(k)))

	centers := make([][]float64, 0, k)
	first := rng.Intn(n)
	centers = append(centers, clone(rows[first]))

	closest := make([]float64, n)
	var potential float64
	for i, r := range rows {
		closest[i] = squaredDistance(r, rows[first])
		potential += closest[i]
	}

	for len(centers) < k {
		bestCandidate := -1
		bestPotential := math.Inf(1)
		var bestDistances []float64

		for t := 0; t < localTrials; t++ {
			candidate := sampleProportional(closest, potential, rng)

			distances := make([]float64, n)
			var candidatePotential float64
			for i, r := range rows {
				d := squaredDistance(r, rows[candidate])
				if closest[i] < d {
					d = closest[i]
				}
				distances[i] = d
				candidatePotential += d
			}

			if candidatePotential < bestPotential {
				bestCandidate = candidate
				bestPotential = candidatePotential
				bestDistances = distances
			}
		}

		centers = append(centers, clone(rows[bestCandidate]))
		closest = bestDistances
		potential = bestPotential
	}

	return centers
}

// sampleProportional draws an index with probability weights[i]/total.
func sampleProportional(weights []float64, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if cumulative > target {
			return i
		}
	}
	return len(weights) - 1
}

// assign sets labels to the nearest center and returns the inertia.
func assign(rows, centers [][]float64, labels []int) float64 {
	var inertia float64
	for i, r := range rows {
		label, dist := nearest(r, centers)
		labels[i] = label
		inertia += dist
	}
	return inertia
}

// nearest returns the index of the closest center and its squared distance.
// Ties go to the lowest index.
func nearest(row []float64, centers [][]float64) (int, float64) {
	best := 0
	bestDist := squaredDistance(row, centers[0])
	for c := 1; c < len(centers); c++ {
		if d := squaredDistance(row, centers[c]); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// recomputeCenters returns the mean of each cluster. Empty clusters are
// relocated to the rows farthest from their current center.
func recomputeCenters(rows [][]float64, labels []int, centers [][]float64, dim int) [][]float64 {
	k := len(centers)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	counts := make([]int, k)

	for i, r := range rows {
		c := labels[i]
		counts[c]++
		for j, v := range r {
			sums[c][j] += v
		}
	}

	var empty []int
	for c := range sums {
		if counts[c] == 0 {
			empty = append(empty, c)
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
	}

	if len(empty) > 0 {
		relocateEmpty(rows, labels, centers, sums, empty)
	}
	return sums
}

// relocateEmpty assigns each empty cluster the row farthest from its current center.
func relocateEmpty(rows [][]float64, labels []int, centers, next [][]float64, empty []int) {
	used := make(map[int]bool, len(empty))
	for _, c := range empty {
		far, farDist := -1, -1.0
		for i, r := range rows {
			if used[i] {
				continue
			}
			if d := squaredDistance(r, centers[labels[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		used[far] = true
		next[c] = clone(rows[far])
	}
}

// meanVariance returns the mean over columns of the population variance.
func meanVariance(rows [][]float64, dim int) float64 {
	n := float64(len(rows))
	var total float64
	for j := 0; j < dim; j++ {
		var mean float64
		for _, r := range rows {
			mean += r[j]
		}
		mean /= n
		var v float64
		for _, r := range rows {
			d := r[j] - mean
			v += d * d
		}
		total += v / n
	}
	return total / float64(dim)
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
