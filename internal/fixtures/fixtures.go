// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package fixtures

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
	"github.com/tomtom215/recipebox/internal/validation"
)

// Interaction is a labeled interaction as written in a fixture file.
type Interaction struct {
	EventID    string               `yaml:"event_id,omitempty"`
	UserID     string               `yaml:"user_id"`
	SubjectIDs []string             `yaml:"subject_ids,omitempty"`
	Signal     recipe.SignalType    `yaml:"signal,omitempty"`
	Decision   recipe.Decision      `yaml:"decision"`
	Score      *float64             `yaml:"score,omitempty"`
	Features   recipe.FeatureVector `yaml:"features,omitempty"`
}

// ToInteraction converts the fixture entry for the engine.
func (i Interaction) ToInteraction() recommend.Interaction {
	return recommend.Interaction{
		EventID:    i.EventID,
		UserID:     i.UserID,
		SubjectIDs: i.SubjectIDs,
		Signal:     i.Signal,
		Decision:   i.Decision,
		Score:      i.Score,
		Features:   i.Features,
	}
}

// File is the content of a fixture file. Every section is optional.
type File struct {
	Input        *recipe.Recipe      `yaml:"input,omitempty"`
	Recipes      []recipe.Recipe     `yaml:"recipes,omitempty"`
	Interactions []Interaction       `yaml:"interactions,omitempty"`
	Weights      recipe.WeightVector `yaml:"weights,omitempty"`
}

// Parse decodes fixture YAML. Unknown fields are rejected so typos in
// hand-written files surface early. Recipes are validated; the input
// recipe is a draft and may lack an ID.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Recipes))
	for i := range f.Recipes {
		if verr := validation.ValidateStruct(&f.Recipes[i]); verr != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, verr)
		}
		if !recipe.ValidID(f.Recipes[i].ID) {
			return nil, fmt.Errorf("recipe %d: invalid id %q", i, f.Recipes[i].ID)
		}
		if _, dup := seen[f.Recipes[i].ID]; dup {
			return nil, fmt.Errorf("recipe %d: duplicate id %q", i, f.Recipes[i].ID)
		}
		seen[f.Recipes[i].ID] = struct{}{}
	}
	for f2, w := range f.Weights {
		if !f2.Known() {
			return nil, fmt.Errorf("weights: unknown feature %q", f2)
		}
		if w < 0 {
			return nil, fmt.Errorf("weights: %q is negative", f2)
		}
	}
	return &f, nil
}

// Load reads and parses a fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// SeedRecipes writes recipes into store and returns how many were written.
// Existing recipes with the same ID are overwritten.
func SeedRecipes(ctx context.Context, store storage.RecipeStore, recipes []recipe.Recipe) (int, error) {
	for i := range recipes {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := store.PutRecipe(ctx, recipes[i]); err != nil {
			return i, fmt.Errorf("seed recipe %s: %w", recipes[i].ID, err)
		}
	}
	return len(recipes), nil
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	return enc.Close()
}
