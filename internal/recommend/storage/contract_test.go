// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// runStoreContract exercises every Store method. Each backend test calls
// it with a fresh, empty store.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("recipes", func(t *testing.T) {
		recipes := []recipe.Recipe{
			{ID: "r1", Title: "Pad Thai", Cuisine: "Thai", Tags: []string{"noodles"}, Diets: []string{"gluten-free"}},
			{ID: "r2", Title: "Green Curry", Cuisine: "thai", Tags: []string{"curry", "spicy"}},
			{ID: "r3", Title: "Lasagna", Cuisine: "Italian", Tags: []string{"pasta"}, CookingStyles: []string{"baking"}},
		}
		for _, r := range recipes {
			if err := s.PutRecipe(ctx, r); err != nil {
				t.Fatalf("PutRecipe(%s): %v", r.ID, err)
			}
		}

		got, err := s.GetRecipe(ctx, "r2")
		if err != nil {
			t.Fatalf("GetRecipe: %v", err)
		}
		if got.Title != "Green Curry" || len(got.Tags) != 2 {
			t.Errorf("GetRecipe = %+v", got)
		}

		if _, err := s.GetRecipe(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetRecipe(missing) err = %v, want ErrNotFound", err)
		}

		many, err := s.GetRecipes(ctx, []string{"r3", "missing", "r1"})
		if err != nil {
			t.Fatalf("GetRecipes: %v", err)
		}
		if len(many) != 2 || many[0].ID != "r3" || many[1].ID != "r1" {
			t.Errorf("GetRecipes order = %+v", many)
		}

		thai, err := s.QueryRecipes(ctx, recipe.Filter{Cuisines: []string{"THAI"}})
		if err != nil {
			t.Fatalf("QueryRecipes: %v", err)
		}
		if len(thai) != 2 || thai[0].ID != "r1" || thai[1].ID != "r2" {
			t.Errorf("QueryRecipes(thai) = %+v", thai)
		}

		tagged, err := s.QueryRecipes(ctx, recipe.Filter{Tags: []string{"pasta", "spicy"}, ExcludeIDs: []string{"r2"}})
		if err != nil {
			t.Fatalf("QueryRecipes: %v", err)
		}
		if len(tagged) != 1 || tagged[0].ID != "r3" {
			t.Errorf("QueryRecipes(tags) = %+v", tagged)
		}

		limited, err := s.QueryRecipes(ctx, recipe.Filter{Limit: 2})
		if err != nil {
			t.Fatalf("QueryRecipes: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("QueryRecipes(limit 2) returned %d", len(limited))
		}
	})

	t.Run("weights", func(t *testing.T) {
		if _, err := s.GetWeights(ctx, "alice", recipe.SignalLike); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetWeights(missing) err = %v, want ErrNotFound", err)
		}

		w := recipe.WeightVector{recipe.FeatureTitle: 0.4, recipe.FeatureIngredients: 0.6}
		if err := s.PutWeights(ctx, "alice", recipe.SignalSimilarity, w); err != nil {
			t.Fatalf("PutWeights: %v", err)
		}
		w[recipe.FeatureTitle] = 99 // stores must not alias caller maps

		got, err := s.GetWeights(ctx, "alice", recipe.SignalSimilarity)
		if err != nil {
			t.Fatalf("GetWeights: %v", err)
		}
		if got[recipe.FeatureTitle] != 0.4 || got[recipe.FeatureIngredients] != 0.6 {
			t.Errorf("GetWeights = %v", got)
		}

		// Overwrite, not merge.
		if err := s.PutWeights(ctx, "alice", recipe.SignalSimilarity, recipe.WeightVector{recipe.FeatureTitle: 1}); err != nil {
			t.Fatalf("PutWeights: %v", err)
		}
		got, _ = s.GetWeights(ctx, "alice", recipe.SignalSimilarity)
		if len(got) != 1 || got[recipe.FeatureTitle] != 1 {
			t.Errorf("overwrite = %v", got)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		if _, err := s.GetMetrics(ctx, "alice", recipe.SignalSave); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetMetrics(missing) err = %v", err)
		}
		m := recipe.ModelMetrics{
			UserID: "alice", Signal: recipe.SignalSave, Version: 2, Method: "normal_equation",
			MSE: 0.01, R2: 0.8, Samples: 40, TrainedAt: time.Unix(1700000000, 0).UTC(),
			Importance: []recipe.FeatureImportance{{Feature: recipe.FeatureTags, Importance: 0.3}},
		}
		if err := s.PutMetrics(ctx, m); err != nil {
			t.Fatalf("PutMetrics: %v", err)
		}
		got, err := s.GetMetrics(ctx, "alice", recipe.SignalSave)
		if err != nil {
			t.Fatalf("GetMetrics: %v", err)
		}
		if got.Version != 2 || got.Samples != 40 || len(got.Importance) != 1 || !got.TrainedAt.Equal(m.TrainedAt) {
			t.Errorf("GetMetrics = %+v", got)
		}
	})

	t.Run("interactions", func(t *testing.T) {
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			rec := recipe.InteractionRecord{
				ID:         fmt.Sprintf("like-%d", i),
				UserID:     "bob",
				SubjectIDs: []string{fmt.Sprintf("r%d", i)},
				Signal:     recipe.SignalLike,
				Decision:   recipe.DecisionLiked,
				Features:   recipe.FeatureVector{recipe.FeatureTags: float64(i) / 10},
				Target:     1,
				Timestamp:  base.Add(time.Duration(i) * time.Hour),
			}
			if err := s.AppendInteraction(ctx, rec); err != nil {
				t.Fatalf("AppendInteraction: %v", err)
			}
		}
		view := recipe.InteractionRecord{
			ID: "view-0", UserID: "bob", SubjectIDs: []string{"r9"}, Signal: recipe.SignalView,
			Decision: recipe.DecisionViewed, Timestamp: base.Add(90 * time.Minute),
		}
		if err := s.AppendInteraction(ctx, view); err != nil {
			t.Fatalf("AppendInteraction: %v", err)
		}

		n, err := s.CountInteractions(ctx, "bob", recipe.SignalLike)
		if err != nil || n != 5 {
			t.Errorf("CountInteractions = %d, %v; want 5", n, err)
		}
		if n, _ := s.CountInteractions(ctx, "nobody", recipe.SignalLike); n != 0 {
			t.Errorf("CountInteractions(nobody) = %d", n)
		}

		recent, err := s.RecentInteractions(ctx, "bob", []recipe.SignalType{recipe.SignalLike}, 3)
		if err != nil {
			t.Fatalf("RecentInteractions: %v", err)
		}
		if len(recent) != 3 || recent[0].ID != "like-4" || recent[2].ID != "like-2" {
			t.Errorf("RecentInteractions order = %v", ids(recent))
		}
		if recent[0].Features[recipe.FeatureTags] != 0.4 {
			t.Errorf("features not round-tripped: %v", recent[0].Features)
		}

		mixed, err := s.RecentInteractions(ctx, "bob", []recipe.SignalType{recipe.SignalLike, recipe.SignalView}, 0)
		if err != nil {
			t.Fatalf("RecentInteractions: %v", err)
		}
		if len(mixed) != 6 {
			t.Fatalf("mixed len = %d, want 6", len(mixed))
		}
		// view-0 sits between like-1 (1h) and like-2 (2h).
		if mixed[3].ID != "view-0" {
			t.Errorf("mixed order = %v", ids(mixed))
		}

		keys, err := s.InteractionKeys(ctx)
		if err != nil {
			t.Fatalf("InteractionKeys: %v", err)
		}
		want := []Key{{UserID: "bob", Signal: recipe.SignalLike}, {UserID: "bob", Signal: recipe.SignalView}}
		if len(keys) != len(want) {
			t.Fatalf("InteractionKeys = %v", keys)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("keys[%d] = %v, want %v", i, keys[i], want[i])
			}
		}
	})
}

func ids(recs []recipe.InteractionRecord) []string {
	out := make([]string, len(recs))
	for i := range recs {
		out[i] = recs[i].ID
	}
	return out
}
