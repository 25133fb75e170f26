// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package learning

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tomtom215/recipebox/internal/recipe"
)

func TestInvert(t *testing.T) {
	t.Parallel()

	A := [][]float64{
		{4, 7, 2},
		{3, 6, 1},
		{2, 5, 3},
	}
	inv, err := invert(A, 1e-10)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}

	for i := range A {
		for j := range A {
			var s float64
			for k := range A {
				s += A[i][k] * inv[k][j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(s-want) > 1e-9 {
				t.Errorf("(A*inv)[%d][%d] = %f, want %f", i, j, s, want)
			}
		}
	}
}

func TestInvert_NeedsPivoting(t *testing.T) {
	t.Parallel()

	inv, err := invert([][]float64{{0, 1}, {1, 0}}, 1e-10)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	if inv[0][1] != 1 || inv[1][0] != 1 || inv[0][0] != 0 {
		t.Errorf("inverse = %v", inv)
	}
}

func TestInvert_Singular(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		A    [][]float64
	}{
		{"dependent rows", [][]float64{{1, 2}, {2, 4}}},
		{"zero", [][]float64{{0, 0}, {0, 0}}},
		{"near singular", [][]float64{{1, 1}, {1, 1 + 1e-14}}},
	}
	for _, tt := range tests {
		if _, err := invert(tt.A, 1e-10); !errors.Is(err, ErrSingularMatrix) {
			t.Errorf("%s: err = %v, want ErrSingularMatrix", tt.name, err)
		}
	}

	if _, err := invert([][]float64{{1, 2}}, 1e-10); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("non-square: err = %v", err)
	}
}

func linearDataset(rng *rand.Rand, n int, fn func(x []float64) float64, cols int) Dataset {
	features := recipe.FeatureOrder[:cols]
	ds := Dataset{Features: features}
	for i := 0; i < n; i++ {
		row := make([]float64, cols)
		for j := range row {
			row[j] = rng.Float64()
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, fn(row))
	}
	return ds
}

func TestFitBatch_NormalEquationRecoversCoefficients(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	ds := linearDataset(rng, 40, func(x []float64) float64 {
		return 0.2 + 0.5*x[0] + 0.3*x[1]
	}, 2)

	res, err := FitBatch(ds, DefaultBatchConfig())
	if err != nil {
		t.Fatalf("FitBatch: %v", err)
	}
	if res.Method != MethodNormalEquation {
		t.Errorf("method = %s", res.Method)
	}
	if math.Abs(res.Weights[recipe.FeatureTitle]-0.625) > 1e-6 {
		t.Errorf("title weight = %f, want 0.625", res.Weights[recipe.FeatureTitle])
	}
	if math.Abs(res.Weights[recipe.FeatureIngredients]-0.375) > 1e-6 {
		t.Errorf("ingredients weight = %f, want 0.375", res.Weights[recipe.FeatureIngredients])
	}
	if math.Abs(res.Importance[0].Importance-0.5) > 1e-6 || math.Abs(res.Importance[1].Importance-0.3) > 1e-6 {
		t.Errorf("importance = %+v", res.Importance)
	}
	if res.MSE > 1e-12 {
		t.Errorf("MSE = %g, want ~0", res.MSE)
	}
	if math.Abs(res.R2-1) > 1e-9 {
		t.Errorf("R2 = %f, want 1", res.R2)
	}
}

func TestFitBatch_FewSamplesUsesGradientDescent(t *testing.T) {
	t.Parallel()

	ds := Dataset{
		Features: []recipe.Feature{recipe.FeatureTitle, recipe.FeatureIngredients, recipe.FeatureCuisine},
		X:        [][]float64{{1, 0.5, 1}, {0.2, 0.9, 0}},
		Y:        []float64{0.3, 0.9},
	}
	res, err := FitBatch(ds, DefaultBatchConfig())
	if err != nil {
		t.Fatalf("FitBatch: %v", err)
	}
	if res.Method != MethodGradientDescent {
		t.Errorf("method = %s, want gradient_descent", res.Method)
	}
	if math.Abs(res.Weights.Sum()-1) > 1e-6 {
		t.Errorf("weights sum = %f", res.Weights.Sum())
	}
}

func TestFitBatch_CollinearColumnsFallBack(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	ds := Dataset{Features: []recipe.Feature{recipe.FeatureTitle, recipe.FeatureIngredients}}
	for i := 0; i < 30; i++ {
		x := rng.Float64()
		ds.X = append(ds.X, []float64{x, x})
		ds.Y = append(ds.Y, 0.8*x)
	}

	res, err := FitBatch(ds, DefaultBatchConfig())
	if err != nil {
		t.Fatalf("FitBatch: %v", err)
	}
	if res.Method != MethodGradientDescent {
		t.Errorf("method = %s, want gradient_descent", res.Method)
	}
	for f, w := range res.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			t.Errorf("%s weight not finite", f)
		}
	}
}

func TestFitBatch_ConstantColumnsStayFinite(t *testing.T) {
	t.Parallel()

	ds := Dataset{Features: []recipe.Feature{recipe.FeatureTitle, recipe.FeatureIngredients, recipe.FeatureCuisine}}
	for i := 0; i < 20; i++ {
		x := float64(i%5) / 5
		// cuisine is never non-zero, ingredients is constant.
		ds.X = append(ds.X, []float64{x, 1, 0})
		ds.Y = append(ds.Y, 0.4*x+0.1)
	}

	res, err := FitBatch(ds, DefaultBatchConfig())
	if err != nil {
		t.Fatalf("FitBatch: %v", err)
	}
	if res.Weights[recipe.FeatureCuisine] != 0 {
		t.Errorf("all-zero column weight = %f, want 0", res.Weights[recipe.FeatureCuisine])
	}
	if !res.Weights.Finite() {
		t.Errorf("weights not finite: %v", res.Weights)
	}
	if math.Abs(res.Weights.Sum()-1) > 1e-6 {
		t.Errorf("weights sum = %f", res.Weights.Sum())
	}
}

func TestFitBatch_ConstantTargetsHaveUnitR2(t *testing.T) {
	t.Parallel()

	ds := Dataset{Features: []recipe.Feature{recipe.FeatureTitle}}
	for i := 0; i < 5; i++ {
		ds.X = append(ds.X, []float64{float64(i) / 4})
		ds.Y = append(ds.Y, 0.3)
	}
	res, err := FitBatch(ds, DefaultBatchConfig())
	if err != nil {
		t.Fatalf("FitBatch: %v", err)
	}
	if res.R2 != 1 {
		t.Errorf("R2 = %f, want 1", res.R2)
	}
}

func TestFitBatch_WindowsToMostRecent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	ds := linearDataset(rng, 150, func(x []float64) float64 { return x[0] }, 2)

	cfg := DefaultBatchConfig()
	res, err := FitBatch(ds, cfg)
	if err != nil {
		t.Fatalf("FitBatch: %v", err)
	}
	if res.Samples != cfg.MaxSamples {
		t.Errorf("Samples = %d, want %d", res.Samples, cfg.MaxSamples)
	}
}

func TestFitBatch_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	cfg := DefaultBatchConfig()

	for trial := 0; trial < 25; trial++ {
		n := 1 + rng.Intn(60)
		cols := 1 + rng.Intn(len(recipe.FeatureOrder))
		ds := Dataset{Features: recipe.FeatureOrder[:cols]}
		for i := 0; i < n; i++ {
			row := make([]float64, cols)
			for j := range row {
				if rng.Intn(4) > 0 {
					row[j] = rng.Float64()
				}
			}
			ds.X = append(ds.X, row)
			ds.Y = append(ds.Y, []float64{0.3, 0.6, 0.9}[rng.Intn(3)])
		}

		res, err := FitBatch(ds, cfg)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if math.Abs(res.Weights.Sum()-1) > 1e-6 {
			t.Errorf("trial %d: weights sum = %f", trial, res.Weights.Sum())
		}
		for f, w := range res.Weights {
			if w < 0 {
				t.Errorf("trial %d: %s weight negative", trial, f)
			}
		}
		if res.MSE < 0 {
			t.Errorf("trial %d: MSE = %f", trial, res.MSE)
		}
		if res.R2 > 1+1e-9 {
			t.Errorf("trial %d: R2 = %f", trial, res.R2)
		}
	}
}

func TestFitBatch_Errors(t *testing.T) {
	t.Parallel()

	if _, err := FitBatch(Dataset{Features: []recipe.Feature{recipe.FeatureTitle}}, DefaultBatchConfig()); !errors.Is(err, ErrNoSamples) {
		t.Errorf("empty: err = %v", err)
	}

	ragged := Dataset{
		Features: []recipe.Feature{recipe.FeatureTitle, recipe.FeatureIngredients},
		X:        [][]float64{{1, 2}, {1}},
		Y:        []float64{0.3, 0.6},
	}
	if _, err := FitBatch(ragged, DefaultBatchConfig()); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("ragged: err = %v", err)
	}
}

func TestBatchConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultBatchConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := DefaultBatchConfig()
	bad.Epochs = 0
	if bad.Validate() == nil {
		t.Error("zero epochs must fail")
	}
}
