// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// ErrNotFound is returned for missing single-key reads.
var ErrNotFound = errors.New("not found")

// RecipeStore reads and writes recipes.
type RecipeStore interface {
	GetRecipe(ctx context.Context, id string) (recipe.Recipe, error)
	// GetRecipes returns the recipes that exist, in the order requested.
	GetRecipes(ctx context.Context, ids []string) ([]recipe.Recipe, error)
	QueryRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error)
	PutRecipe(ctx context.Context, r recipe.Recipe) error
}

// WeightStore holds the current weight vector per (user, signal).
type WeightStore interface {
	GetWeights(ctx context.Context, userID string, signal recipe.SignalType) (recipe.WeightVector, error)
	PutWeights(ctx context.Context, userID string, signal recipe.SignalType, w recipe.WeightVector) error
}

// InteractionStore is an append-only log of learning samples.
type InteractionStore interface {
	AppendInteraction(ctx context.Context, rec recipe.InteractionRecord) error
	CountInteractions(ctx context.Context, userID string, signal recipe.SignalType) (int, error)
	// RecentInteractions returns up to n records for the given signals,
	// newest first.
	RecentInteractions(ctx context.Context, userID string, signals []recipe.SignalType, n int) ([]recipe.InteractionRecord, error)
	// InteractionKeys lists every (user, signal) pair with at least one record.
	InteractionKeys(ctx context.Context) ([]Key, error)
}

// MetricsStore holds the latest batch training metrics per (user, signal).
type MetricsStore interface {
	GetMetrics(ctx context.Context, userID string, signal recipe.SignalType) (recipe.ModelMetrics, error)
	PutMetrics(ctx context.Context, m recipe.ModelMetrics) error
}

// Store bundles every contract. All bundled implementations satisfy it.
type Store interface {
	RecipeStore
	WeightStore
	InteractionStore
	MetricsStore
	Close() error
}

// Key identifies a (user, signal) pair.
type Key struct {
	UserID string            `json:"user_id"`
	Signal recipe.SignalType `json:"signal"`
}

// String returns "user:signal".
func (k Key) String() string {
	return k.UserID + ":" + string(k.Signal)
}

// SortKeys orders keys by user then signal.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].UserID != keys[j].UserID {
			return keys[i].UserID < keys[j].UserID
		}
		return keys[i].Signal < keys[j].Signal
	})
}

// MatchesFilter reports whether r satisfies f, ignoring Limit.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func MatchesFilter(r recipe.Recipe, f recipe.Filter) bool {
	for _, id := range f.ExcludeIDs {
		if r.ID == id {
			return false
		}
	}
	if len(f.Cuisines) > 0 && !anyEqualFold([]string{r.Cuisine}, f.Cuisines) {
		return false
	}
	if len(f.Tags) > 0 && !anyEqualFold(r.Tags, f.Tags) {
		return false
	}
	if len(f.Diets) > 0 && !anyEqualFold(r.Diets, f.Diets) {
		return false
	}
	if len(f.CookingStyles) > 0 && !anyEqualFold(r.CookingStyles, f.CookingStyles) {
		return false
	}
	return true
}

func anyEqualFold(have, want []string) bool {
	for _, h := range have {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		for _, w := range want {
			if strings.EqualFold(h, strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}

func containsSignal(signals []recipe.SignalType, s recipe.SignalType) bool {
	for _, x := range signals {
		if x == s {
			return true
		}
	}
	return false
}
