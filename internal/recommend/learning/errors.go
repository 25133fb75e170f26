// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package learning

import "errors"

var (
	// ErrSingularMatrix is returned when a pivot falls below tolerance.
	ErrSingularMatrix = errors.New("matrix is singular or near-singular")

	// ErrNoSamples is returned when a batch run has nothing to fit.
	ErrNoSamples = errors.New("no training samples")

	// ErrNonFinite is returned when a fit produced NaN or Inf.
	ErrNonFinite = errors.New("fit produced non-finite values")

	// ErrDimensionMismatch is returned for ragged or mismatched inputs.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
