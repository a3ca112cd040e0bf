// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package als

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/tomtom215/crosssell/internal/recommend"
)

// initScale bounds the seeded factor values to [-initScale, initScale).
const initScale = 0.1

// TrainReport summarizes one training run.
type TrainReport struct {
	Users      int `json:"users"`
	Items      int `json:"items"`
	Factors    int `json:"factors"`
	Iterations int `json:"iterations"`

	// SkippedPivots counts elimination columns skipped for a near-zero
	// pivot across every solve of the run. Non-zero values mean some
	// systems were singular or badly conditioned.
	SkippedPivots int64 `json:"skipped_pivots"`

	Duration time.Duration `json:"duration"`
}

// Train builds the interaction matrix and fits factors on it.
func Train(ctx context.Context, interactions []recommend.Interaction, cfg recommend.ALSConfig) (*recommend.FactorSet, *TrainReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	m, err := BuildInteractionMatrix(interactions)
	if err != nil {
		return nil, nil, err
	}
	return TrainMatrix(ctx, m, cfg)
}

// TrainMatrix fits user and item factors to m.
//
// A matrix without users or items yields an empty factor set and no
// iterations. The context is checked between half iterations.
//
//nolint:gocritic // cfg is a small value type
func TrainMatrix(ctx context.Context, m *InteractionMatrix, cfg recommend.ALSConfig) (*recommend.FactorSet, *TrainReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	k := cfg.Factors

	fs := &recommend.FactorSet{
		Factors:     k,
		UserFactors: []float64{},
		ItemFactors: []float64{},
		Users:       m.Users,
		Items:       m.Items,
		UserIndex:   m.UserIndex,
		ItemIndex:   m.ItemIndex,
	}
	report := &TrainReport{Users: m.Rows, Items: m.Cols, Factors: k}
	if m.Rows == 0 || m.Cols == 0 {
		report.Duration = time.Since(start)
		return fs, report, nil
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible init, not security sensitive
	fs.UserFactors = randomFactors(rng, m.Rows, k)
	fs.ItemFactors = randomFactors(rng, m.Cols, k)

	t := &trainer{
		m:       m,
		k:       k,
		lambda:  cfg.Regularization,
		workers: cfg.NumWorkers,
		gram:    make([]float64, k*k),
	}
	if t.workers <= 0 {
		t.workers = runtime.GOMAXPROCS(0)
	}

	for iter := 0; iter < cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		report.SkippedPivots += t.half(fs.UserFactors, fs.ItemFactors, m.Rows, m.Cols, userSide)

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		report.SkippedPivots += t.half(fs.ItemFactors, fs.UserFactors, m.Cols, m.Rows, itemSide)
		report.Iterations++
	}

	report.Duration = time.Since(start)
	return fs, report, nil
}

func randomFactors(rng *rand.Rand, rows, k int) []float64 {
	out := make([]float64, rows*k)
	for i := range out {
		out[i] = -initScale + 2*initScale*rng.Float64()
	}
	return out
}

type side int

const (
	userSide side = iota
	itemSide
)

type trainer struct {
	m       *InteractionMatrix
	k       int
	lambda  float64
	workers int
	gram    []float64
}

// half replaces every row of dst (dstRows x k) with the regularized least
// squares solution against the fixed factors (fixedRows x k). It returns
// the number of skipped pivots.
func (t *trainer) half(dst, fixed []float64, dstRows, fixedRows int, s side) int64 {
	k := t.k
	t.regularizedGram(fixed, fixedRows)

	workers := t.workers
	if workers > dstRows {
		workers = dstRows
	}
	chunkSize := (dstRows + workers - 1) / workers
	skipped := make([]int64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > dstRows {
			end = dstRows
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(w, rowStart, rowEnd int) {
			defer wg.Done()

			rhs := make([]float64, k)
			aug := make([]float64, k*(k+1))
			for r := rowStart; r < rowEnd; r++ {
				t.project(rhs, fixed, fixedRows, r, s)
				skipped[w] += int64(solve(t.gram, rhs, k, aug, dst[r*k:(r+1)*k]))
			}
		}(w, start, end)
	}
	wg.Wait()

	var total int64
	for _, n := range skipped {
		total += n
	}
	return total
}

// regularizedGram sets t.gram to FᵀF + λI for the fixed factors F.
func (t *trainer) regularizedGram(fixed []float64, rows int) {
	k := t.k
	for i := range t.gram {
		t.gram[i] = 0
	}
	for r := 0; r < rows; r++ {
		row := fixed[r*k : (r+1)*k]
		for f1 := 0; f1 < k; f1++ {
			for f2 := f1; f2 < k; f2++ {
				t.gram[f1*k+f2] += row[f1] * row[f2]
			}
		}
	}
	for f1 := 0; f1 < k; f1++ {
		for f2 := f1 + 1; f2 < k; f2++ {
			t.gram[f2*k+f1] = t.gram[f1*k+f2]
		}
		t.gram[f1*k+f1] += t.lambda
	}
}

// project sets rhs to Fᵀ r where r is the interaction row (user side) or
// column (item side) of index idx.
func (t *trainer) project(rhs, fixed []float64, fixedRows, idx int, s side) {
	k := t.k
	for f := range rhs {
		rhs[f] = 0
	}
	for j := 0; j < fixedRows; j++ {
		var q float64
		if s == userSide {
			q = t.m.At(idx, j)
		} else {
			q = t.m.At(j, idx)
		}
		if q == 0 {
			continue
		}
		row := fixed[j*k : (j+1)*k]
		for f := 0; f < k; f++ {
			rhs[f] += row[f] * q
		}
	}
}
