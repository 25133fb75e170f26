// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package learning

import "math"

// gram returns XᵗX.
func gram(X [][]float64) [][]float64 {
	if len(X) == 0 {
		return nil
	}
	n := len(X[0])
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for _, row := range X {
		for i := 0; i < n; i++ {
			if row[i] == 0 {
				continue
			}
			for j := i; j < n; j++ {
				out[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			out[i][j] = out[j][i]
		}
	}
	return out
}

// transposeVec returns Xᵗy.
func transposeVec(X [][]float64, y []float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X[0]))
	for r, row := range X {
		for j, x := range row {
			out[j] += x * y[r]
		}
	}
	return out
}

// matVec returns Av.
func matVec(A [][]float64, v []float64) []float64 {
	out := make([]float64, len(A))
	for i, row := range A {
		var s float64
		for j, a := range row {
			s += a * v[j]
		}
		out[i] = s
	}
	return out
}

// invert computes A⁻¹ by Gauss-Jordan elimination with partial pivoting.
// A pivot smaller than tol times the largest entry of A means the matrix
// is singular for our purposes and ErrSingularMatrix is returned.
func invert(A [][]float64, tol float64) ([][]float64, error) {
	n := len(A)
	if n == 0 {
		return nil, ErrDimensionMismatch
	}

	var scale float64
	for _, row := range A {
		if len(row) != n {
			return nil, ErrDimensionMismatch
		}
		for _, a := range row {
			scale = math.Max(scale, math.Abs(a))
		}
	}
	if scale == 0 {
		return nil, ErrSingularMatrix
	}
	threshold := tol * scale

	// Augmented matrix [A|I]
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], A[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < threshold {
			return nil, ErrSingularMatrix
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		p := aug[col][col]
		for j := range aug[col] {
			aug[col][j] /= p
		}

		// Eliminate the column from every other row.
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for j := col; j < 2*n; j++ {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		copy(inv[i], aug[i][n:])
	}
	return inv, nil
}
