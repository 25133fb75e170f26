// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
)

// SearchHit is a recipe matched by title search.
type SearchHit struct {
	Recipe recipe.Recipe `json:"recipe"`
	Score  float64       `json:"score"`
}

// SearchRecipes matches term against the titles of recipes selected by
// filter. Hits with a positive score are returned best first, ties by ID,
// truncated to limit (clamped like recommendation limits).
//
//nolint:gocritic // hugeParam: filter passed by value for immutability
func (e *Engine) SearchRecipes(ctx context.Context, term string, filter recipe.Filter, limit int) ([]SearchHit, error) {
	limit = e.clampLimit(limit)
	if strings.TrimSpace(term) == "" {
		return []SearchHit{}, nil
	}

	filter.Limit = 0
	recipes, err := e.stores.Recipes.QueryRecipes(ctx, filter)
	if err != nil {
		metrics.RecordStoreError("query_recipes")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	hits := make([]SearchHit, 0)
	for i := range recipes {
		if s := e.extractor.SearchMatch(term, recipes[i].Title); s > 0 {
			hits = append(hits, SearchHit{Recipe: recipes[i], Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Recipe.ID < hits[j].Recipe.ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
