// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
)

func TestProfile_AddAndNormalize(t *testing.T) {
	t.Parallel()

	p := NewProfile()
	p.Add(recipe.Recipe{Tags: []string{"pasta", "quick"}, Cuisine: "Italian", ReadyInMinutes: 20}, 2)
	p.Add(recipe.Recipe{Tags: []string{"pasta"}, Cuisine: "Thai", ReadyInMinutes: 50}, 1)
	p.Add(recipe.Recipe{Tags: []string{"ignored"}}, 0)
	p.Normalize()

	if p.Recipes != 2 {
		t.Errorf("Recipes = %d, want 2", p.Recipes)
	}
	if math.Abs(p.Tags["pasta"]-0.6) > epsilon {
		t.Errorf("pasta = %f, want 0.6", p.Tags["pasta"])
	}
	if math.Abs(p.Cuisines["italian"]-2.0/3.0) > epsilon {
		t.Errorf("italian = %f", p.Cuisines["italian"])
	}
	if math.Abs(p.AvgReadyMinutes-30) > epsilon {
		t.Errorf("AvgReadyMinutes = %f, want 30", p.AvgReadyMinutes)
	}
	if _, ok := p.Tags["ignored"]; ok {
		t.Error("zero-weight recipe should not contribute")
	}
}

func TestExtractor_ExtractProfile(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig(), WithClock(fixedClock(time.July)))
	p := NewProfile()
	p.Add(recipe.Recipe{
		Tags:           []string{"grill", "summer"},
		Ingredients:    []string{"corn", "butter"},
		Cuisine:        "American",
		CookingStyles:  []string{"grilling"},
		ReadyInMinutes: 30,
	}, 1)
	p.Normalize()

	match := recipe.Recipe{
		ID:             "m",
		Tags:           []string{"grill", "summer"},
		Ingredients:    []string{"corn", "butter", "salt"},
		Cuisine:        "american",
		CookingStyles:  []string{"Grilling"},
		ReadyInMinutes: 40,
		Seasons:        []string{"summer"},
	}
	fv := e.ExtractProfile(p, match)
	for _, f := range []recipe.Feature{
		recipe.FeatureTags, recipe.FeatureIngredients, recipe.FeatureCuisine,
		recipe.FeatureCookingStyle, recipe.FeatureTime, recipe.FeatureSeason,
	} {
		if math.Abs(fv[f]-1) > epsilon {
			t.Errorf("%s = %f, want 1", f, fv[f])
		}
	}
	if _, ok := fv[recipe.FeatureTitle]; ok {
		t.Error("title has no profile counterpart")
	}

	miss := e.ExtractProfile(p, recipe.Recipe{ID: "x", Tags: []string{"dessert"}})
	if miss[recipe.FeatureTags] != 0 || miss[recipe.FeatureCuisine] != 0 {
		t.Errorf("unexpected match: %v", miss)
	}

	empty := e.ExtractProfile(NewProfile(), match)
	if empty[recipe.FeatureTags] != 0 || empty[recipe.FeatureSeason] != 1 {
		t.Errorf("empty profile features = %v", empty)
	}
}
