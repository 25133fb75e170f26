// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package tracker records learning samples and decides when there are
// enough of them to learn from.
package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/learning"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// DefaultMinInteractions is the learning gate.
const DefaultMinInteractions = 10

// ShouldLearn reports whether count reaches the gate.
func ShouldLearn(count, minInteractions int) bool {
	return count >= minInteractions
}

// Tracker appends interaction records and turns them into datasets.
type Tracker struct {
	store           storage.InteractionStore
	minInteractions int
	now             func() time.Time
}

// New creates a tracker. A non-positive gate uses DefaultMinInteractions.
func New(store storage.InteractionStore, minInteractions int) *Tracker {
	if minInteractions <= 0 {
		minInteractions = DefaultMinInteractions
	}
	return &Tracker{store: store, minInteractions: minInteractions, now: time.Now}
}

// WithClock returns a copy of t using now for timestamps.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	c := *t
	c.now = now
	return &c
}

// MinInteractions returns the learning gate.
func (t *Tracker) MinInteractions() int {
	return t.minInteractions
}

// ShouldLearn reports whether count reaches this tracker's gate.
func (t *Tracker) ShouldLearn(count int) bool {
	return ShouldLearn(count, t.minInteractions)
}

// Record appends rec, assigning an ID and timestamp when missing. The
// stored record is returned.
//
//nolint:gocritic // hugeParam: record is copied before it is completed
func (t *Tracker) Record(ctx context.Context, rec recipe.InteractionRecord) (recipe.InteractionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = t.now().UTC()
	}
	rec.Features = rec.Features.Sanitize()

	if err := t.store.AppendInteraction(ctx, rec); err != nil {
		return rec, fmt.Errorf("append interaction: %w", err)
	}
	return rec, nil
}

// Count returns how many records exist for (user, signal).
func (t *Tracker) Count(ctx context.Context, userID string, signal recipe.SignalType) (int, error) {
	n, err := t.store.CountInteractions(ctx, userID, signal)
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

// Samples builds a dataset from the most recent limit records, oldest
// first. Columns follow columns; feature keys outside it are ignored and
// missing keys read as 0.
func (t *Tracker) Samples(ctx context.Context, userID string, signal recipe.SignalType, columns []recipe.Feature, limit int) (learning.Dataset, error) {
	recs, err := t.store.RecentInteractions(ctx, userID, []recipe.SignalType{signal}, limit)
	if err != nil {
		return learning.Dataset{}, fmt.Errorf("fetch interactions: %w", err)
	}

	ds := learning.Dataset{
		Features: append([]recipe.Feature(nil), columns...),
		X:        make([][]float64, 0, len(recs)),
		Y:        make([]float64, 0, len(recs)),
	}
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		if math.IsNaN(rec.Target) || math.IsInf(rec.Target, 0) {
			continue
		}
		row := make([]float64, len(columns))
		for j, f := range columns {
			row[j] = rec.Features.Value(f)
		}
		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, rec.Target)
	}
	return ds, nil
}
