// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// MemoryStore keeps everything in process memory. Weight vectors are
// replaced wholesale on write so readers never observe a partial update.
type MemoryStore struct {
	mu           sync.RWMutex
	recipes      map[string]recipe.Recipe
	weights      map[Key]recipe.WeightVector
	metrics      map[Key]recipe.ModelMetrics
	interactions map[Key][]recipe.InteractionRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes:      make(map[string]recipe.Recipe),
		weights:      make(map[Key]recipe.WeightVector),
		metrics:      make(map[Key]recipe.ModelMetrics),
		interactions: make(map[Key][]recipe.InteractionRecord),
	}
}

// GetRecipe implements RecipeStore.
func (s *MemoryStore) GetRecipe(_ context.Context, id string) (recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return recipe.Recipe{}, ErrNotFound
	}
	return r, nil
}

// GetRecipes implements RecipeStore.
func (s *MemoryStore) GetRecipes(_ context.Context, ids []string) ([]recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.recipes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// QueryRecipes implements RecipeStore. Results are ordered by ID.
func (s *MemoryStore) QueryRecipes(_ context.Context, filter recipe.Filter) ([]recipe.Recipe, error) {
	s.mu.RLock()
	out := make([]recipe.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if MatchesFilter(r, filter) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// PutRecipe implements RecipeStore.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func (s *MemoryStore) PutRecipe(_ context.Context, r recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
	return nil
}

// GetWeights implements WeightStore.
func (s *MemoryStore) GetWeights(_ context.Context, userID string, signal recipe.SignalType) (recipe.WeightVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.weights[Key{UserID: userID, Signal: signal}]
	if !ok {
		return nil, ErrNotFound
	}
	return w.Clone(), nil
}

// PutWeights implements WeightStore.
func (s *MemoryStore) PutWeights(_ context.Context, userID string, signal recipe.SignalType, w recipe.WeightVector) error {
	next := w.Clone()
	s.mu.Lock()
	s.weights[Key{UserID: userID, Signal: signal}] = next
	s.mu.Unlock()
	return nil
}

// AppendInteraction implements InteractionStore.
func (s *MemoryStore) AppendInteraction(_ context.Context, rec recipe.InteractionRecord) error {
	rec.Features = rec.Features.Clone()
	rec.SubjectIDs = append([]string(nil), rec.SubjectIDs...)

	s.mu.Lock()
	defer s.mu.Unlock()
	k := Key{UserID: rec.UserID, Signal: rec.Signal}
	s.interactions[k] = append(s.interactions[k], rec)
	return nil
}

// CountInteractions implements InteractionStore.
func (s *MemoryStore) CountInteractions(_ context.Context, userID string, signal recipe.SignalType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.interactions[Key{UserID: userID, Signal: signal}]), nil
}

// RecentInteractions implements InteractionStore.
func (s *MemoryStore) RecentInteractions(_ context.Context, userID string, signals []recipe.SignalType, n int) ([]recipe.InteractionRecord, error) {
	s.mu.RLock()
	var out []recipe.InteractionRecord
	for _, sig := range signals {
		out = append(out, s.interactions[Key{UserID: userID, Signal: sig}]...)
	}
	s.mu.RUnlock()

	return newestFirst(out, n), nil
}

// InteractionKeys implements InteractionStore.
func (s *MemoryStore) InteractionKeys(_ context.Context) ([]Key, error) {
	s.mu.RLock()
	keys := make([]Key, 0, len(s.interactions))
	for k, recs := range s.interactions {
		if len(recs) > 0 {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	SortKeys(keys)
	return keys, nil
}

// GetMetrics implements MetricsStore.
func (s *MemoryStore) GetMetrics(_ context.Context, userID string, signal recipe.SignalType) (recipe.ModelMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.metrics[Key{UserID: userID, Signal: signal}]
	if !ok {
		return recipe.ModelMetrics{}, ErrNotFound
	}
	return m, nil
}

// PutMetrics implements MetricsStore.
//
//nolint:gocritic // hugeParam: metrics passed by value for clarity
func (s *MemoryStore) PutMetrics(_ context.Context, m recipe.ModelMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[Key{UserID: m.UserID, Signal: m.Signal}] = m
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

// newestFirst sorts records by timestamp descending (ID breaks ties) and
// truncates to n when n > 0.
func newestFirst(recs []recipe.InteractionRecord, n int) []recipe.InteractionRecord {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		}
		return recs[i].ID > recs[j].ID
	})
	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

var _ Store = (*MemoryStore)(nil)
