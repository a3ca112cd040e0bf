// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

package als

import "math"

// pivotEpsilon is the magnitude below which a pivot is treated as zero.
const pivotEpsilon = 1e-9

// solve solves a·x = b by Gauss-Jordan elimination with partial pivoting.
//
// a is n x n row-major and is not modified. aug is scratch space of at
// least n*(n+1) values; x receives the solution. A column whose largest
// remaining pivot is below pivotEpsilon is skipped, leaving x at that
// position with whatever elimination produced. The number of skipped
// columns is returned.
//
//nolint:gocritic // a, b, x follow standard linear algebra notation
func solve(a, b []float64, n int, aug, x []float64) int {
	w := n + 1
	aug = aug[:n*w]
	for r := 0; r < n; r++ {
		copy(aug[r*w:r*w+n], a[r*n:(r+1)*n])
		aug[r*w+n] = b[r]
	}

	skipped := 0
	for col := 0; col < n; col++ {
		pivotRow := col
		best := math.Abs(aug[col*w+col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r*w+col]); v > best {
				best, pivotRow = v, r
			}
		}
		if best < pivotEpsilon {
			skipped++
			continue
		}
		if pivotRow != col {
			for c := 0; c < w; c++ {
				aug[col*w+c], aug[pivotRow*w+c] = aug[pivotRow*w+c], aug[col*w+c]
			}
		}

		pivot := aug[col*w+col]
		for c := col; c < w; c++ {
			aug[col*w+c] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r*w+col]
			if factor == 0 {
				continue
			}
			for c := col; c < w; c++ {
				aug[r*w+c] -= factor * aug[col*w+c]
			}
		}
	}

	for r := 0; r < n; r++ {
		x[r] = aug[r*w+n]
	}
	return skipped
}
