// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package learning

import (
	"fmt"
	"math"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Method names the solver used for a batch fit.
type Method string

const (
	MethodNormalEquation  Method = "normal_equation"
	MethodGradientDescent Method = "gradient_descent"
)

// BatchConfig controls batch fits.
type BatchConfig struct {
	// MaxSamples caps the design matrix at the most recent rows.
	MaxSamples int `json:"max_samples"`

	// Epochs, LearningRate and InitialWeight drive gradient descent.
	Epochs        int     `json:"epochs"`
	LearningRate  float64 `json:"learning_rate"`
	InitialWeight float64 `json:"initial_weight"`

	// PivotTolerance is relative to the largest entry of XᵗX.
	PivotTolerance float64 `json:"pivot_tolerance"`
}

// DefaultBatchConfig returns the production defaults.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxSamples:     100,
		Epochs:         100,
		LearningRate:   0.05,
		InitialWeight:  0.1,
		PivotTolerance: 1e-10,
	}
}

// Validate checks the configuration.
func (c BatchConfig) Validate() error {
	if c.MaxSamples < 1 {
		return fmt.Errorf("max_samples must be positive, got %d", c.MaxSamples)
	}
	if c.Epochs < 1 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0,1], got %f", c.LearningRate)
	}
	if c.InitialWeight < 0 {
		return fmt.Errorf("initial_weight must be non-negative, got %f", c.InitialWeight)
	}
	if c.PivotTolerance <= 0 {
		return fmt.Errorf("pivot_tolerance must be positive, got %g", c.PivotTolerance)
	}
	return nil
}

// Dataset is a dense design matrix with its column names and targets.
// Rows are ordered oldest first.
type Dataset struct {
	Features []recipe.Feature
	X        [][]float64
	Y        []float64
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Y)
}

// BatchResult is a completed fit.
type BatchResult struct {
	Method Method

	// Weights is the non-negative normalized vector ready to persist.
	Weights recipe.WeightVector

	// Importance holds |coefficient| before clamping and normalization,
	// in column order.
	Importance []recipe.FeatureImportance

	MSE     float64
	R2      float64
	Samples int
}

// FitBatch fits a linear model to ds. The normal equations are tried
// first; gradient descent is used when there are fewer rows than
// coefficients or the Gram matrix is singular. Columns that are zero in
// every row receive weight 0.
func FitBatch(ds Dataset, cfg BatchConfig) (*BatchResult, error) {
	if err := validateDataset(ds); err != nil {
		return nil, err
	}

	X, y := ds.X, ds.Y
	if cfg.MaxSamples > 0 && len(y) > cfg.MaxSamples {
		X = X[len(X)-cfg.MaxSamples:]
		y = y[len(y)-cfg.MaxSamples:]
	}

	active := activeColumns(X, len(ds.Features))
	Xa := selectColumns(X, active)

	coef, bias, method := fitActive(Xa, y, cfg)

	raw := make([]float64, len(ds.Features))
	for i, col := range active {
		raw[col] = coef[i]
	}

	mse, r2 := evaluate(Xa, y, coef, bias)
	if !finite(raw) || !finite([]float64{bias, mse, r2}) {
		return nil, ErrNonFinite
	}

	res := &BatchResult{
		Method:     method,
		Weights:    make(recipe.WeightVector, len(ds.Features)),
		Importance: make([]recipe.FeatureImportance, len(ds.Features)),
		MSE:        mse,
		R2:         r2,
		Samples:    len(y),
	}
	for i, f := range ds.Features {
		res.Weights[f] = math.Max(raw[i], 0)
		res.Importance[i] = recipe.FeatureImportance{Feature: f, Importance: math.Abs(raw[i])}
	}
	res.Weights = res.Weights.Normalize()
	return res, nil
}

// fitActive solves for coefficients over the non-zero columns.
func fitActive(X [][]float64, y []float64, cfg BatchConfig) (coef []float64, bias float64, method Method) {
	cols := 0
	if len(X) > 0 {
		cols = len(X[0])
	}
	if cols == 0 {
		// Nothing to learn from; the mean is the best constant predictor.
		return nil, mean(y), MethodNormalEquation
	}

	if len(y) >= cols+1 {
		if c, b, err := normalEquation(X, y, cfg.PivotTolerance); err == nil && finite(c) && !math.IsNaN(b) && !math.IsInf(b, 0) {
			return c, b, MethodNormalEquation
		}
	}
	return gradientDescent(X, y, cfg), 0, MethodGradientDescent
}

// normalEquation solves (XᵗX)β = Xᵗy with a leading bias column and returns
// the coefficients without the bias.
func normalEquation(X [][]float64, y []float64, tol float64) ([]float64, float64, error) {
	Xb := make([][]float64, len(X))
	for i, row := range X {
		Xb[i] = make([]float64, len(row)+1)
		Xb[i][0] = 1
		copy(Xb[i][1:], row)
	}

	inv, err := invert(gram(Xb), tol)
	if err != nil {
		return nil, 0, err
	}
	beta := matVec(inv, transposeVec(Xb, y))
	return beta[1:], beta[0], nil
}

// gradientDescent runs per-sample updates w[j] += lr*(y-ŷ)*x[j].
func gradientDescent(X [][]float64, y []float64, cfg BatchConfig) []float64 {
	w := make([]float64, len(X[0]))
	for j := range w {
		w[j] = cfg.InitialWeight
	}
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for i, row := range X {
			errTerm := y[i] - dot(w, row)
			for j, x := range row {
				w[j] += cfg.LearningRate * errTerm * x
			}
		}
	}
	return w
}

// evaluate returns MSE and R² of the fitted model on its training data.
// R² is 1 when the targets have no variance.
func evaluate(X [][]float64, y, coef []float64, bias float64) (mse, r2 float64) {
	if len(y) == 0 {
		return 0, 1
	}
	avg := mean(y)
	var ssRes, ssTot float64
	for i := range y {
		pred := bias
		if len(coef) > 0 {
			pred += dot(coef, X[i])
		}
		d := y[i] - pred
		ssRes += d * d
		t := y[i] - avg
		ssTot += t * t
	}
	mse = ssRes / float64(len(y))
	if ssTot == 0 {
		return mse, 1
	}
	return mse, 1 - ssRes/ssTot
}

func validateDataset(ds Dataset) error {
	if len(ds.Y) == 0 {
		return ErrNoSamples
	}
	if len(ds.X) != len(ds.Y) {
		return fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(ds.X), len(ds.Y))
	}
	if len(ds.Features) == 0 {
		return fmt.Errorf("%w: no feature columns", ErrDimensionMismatch)
	}
	for i, row := range ds.X {
		if len(row) != len(ds.Features) {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), len(ds.Features))
		}
	}
	return nil
}

// activeColumns returns the indices of columns with at least one non-zero.
func activeColumns(X [][]float64, cols int) []int {
	active := make([]int, 0, cols)
	for j := 0; j < cols; j++ {
		for _, row := range X {
			if row[j] != 0 {
				active = append(active, j)
				break
			}
		}
	}
	return active
}

func selectColumns(X [][]float64, cols []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(cols))
		for k, j := range cols {
			out[i][k] = row[j]
		}
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
