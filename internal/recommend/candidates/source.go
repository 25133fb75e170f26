// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package candidates

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// ErrSourceUnavailable is returned when a source is temporarily disabled.
var ErrSourceUnavailable = errors.New("candidate source unavailable")

// Source fetches batches of candidate recipes.
type Source interface {
	FetchBatch(ctx context.Context, n int) ([]recipe.Recipe, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, n int) ([]recipe.Recipe, error)

// FetchBatch calls f.
func (f SourceFunc) FetchBatch(ctx context.Context, n int) ([]recipe.Recipe, error) {
	return f(ctx, n)
}

// StaticSource serves a fixed list of recipes.
type StaticSource struct {
	recipes []recipe.Recipe
}

// NewStaticSource copies recipes into a new source.
func NewStaticSource(recipes []recipe.Recipe) *StaticSource {
	out := make([]recipe.Recipe, len(recipes))
	copy(out, recipes)
	return &StaticSource{recipes: out}
}

// FetchBatch returns the first n recipes. n <= 0 returns all of them.
func (s *StaticSource) FetchBatch(ctx context.Context, n int) ([]recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 || n > len(s.recipes) {
		n = len(s.recipes)
	}
	out := make([]recipe.Recipe, n)
	copy(out, s.recipes[:n])
	return out, nil
}

// RecipeQuerier is the slice of the recipe store a StoreSource needs.
type RecipeQuerier interface {
	QueryRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error)
}

// StoreSource draws candidates from the local recipe store.
type StoreSource struct {
	store  RecipeQuerier
	filter recipe.Filter
}

// NewStoreSource creates a source that queries store with filter. The
// filter limit is overridden by the batch size on every call.
//
//nolint:gocritic // hugeParam: filter copied once at construction
func NewStoreSource(store RecipeQuerier, filter recipe.Filter) *StoreSource {
	return &StoreSource{store: store, filter: filter}
}

// FetchBatch queries up to n recipes.
func (s *StoreSource) FetchBatch(ctx context.Context, n int) ([]recipe.Recipe, error) {
	f := s.filter
	f.Limit = n
	out, err := s.store.QueryRecipes(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query recipe store: %w", err)
	}
	return out, nil
}

// sanitize drops records without a usable ID and duplicates. Other bad
// fields are left for the feature extractor, which scores them as 0.
func sanitize(in []recipe.Recipe) []recipe.Recipe {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for i := range in {
		if !recipe.ValidID(in[i].ID) {
			continue
		}
		if _, dup := seen[in[i].ID]; dup {
			continue
		}
		seen[in[i].ID] = struct{}{}
		out = append(out, in[i])
	}
	return out
}
