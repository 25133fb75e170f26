// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/recipebox/internal/events"
	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/learning"
	"github.com/tomtom215/recipebox/internal/recommend/scoring"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// RecordInteraction stores in and, once the (user, signal) pair has enough
// samples, applies an online update and schedules batch training.
//
// Writes for one (user, signal) are serialized. Storage failures are
// reported through Outcome.Err with Recorded false; a failed weight write
// after a successful append leaves Recorded true and Learned false.
//
//nolint:gocritic // hugeParam: interaction passed by value for immutability
func (e *Engine) RecordInteraction(ctx context.Context, in Interaction) Outcome {
	in, err := in.normalize()
	if err != nil {
		return Outcome{Err: err}
	}

	if in.EventID != "" && e.dedup.IsDuplicate(in.EventID, struct{}{}) {
		metrics.RecordDuplicateInteraction()
		e.logger.Debug().Str("event_id", in.EventID).Msg("duplicate interaction acknowledged")
		return Outcome{Recorded: true, Duplicate: true}
	}

	key := storage.Key{UserID: in.UserID, Signal: in.Signal}
	unlock := e.locks.Lock(key)
	defer unlock()

	out, current, err := e.append(ctx, in)
	if err != nil {
		if in.EventID != "" {
			e.dedup.Remove(in.EventID)
		}
		return Outcome{Err: err}
	}

	logger := e.logger.With().
		Str("user_id", in.UserID).
		Str("signal", string(in.Signal)).
		Int("count", out.Count).
		Logger()

	if in.Signal.Learned() && e.tracker.ShouldLearn(out.Count) && current != nil {
		next := learning.OnlineUpdate(current, in.Features, e.predicted(in, current), learning.TargetFor(in.Decision), e.cfg.Online)
		if err := e.stores.Weights.PutWeights(ctx, in.UserID, in.Signal, next); err != nil {
			metrics.RecordStoreError("put_weights")
			logger.Warn().Err(err).Msg("online weight write failed")
		} else {
			out.Learned = true
			out.NewWeights = next
			metrics.RecordOnlineUpdate(string(in.Signal))
		}
	}

	if e.shouldBatch(in.Signal, out.Count) {
		job, err := e.queue.Enqueue(key)
		if err != nil {
			logger.Warn().Err(err).Msg("batch training not scheduled")
		} else {
			out.Training = job
			logger.Debug().Str("job_id", job.ID).Msg("batch training scheduled")
		}
	}

	e.InvalidateProfile(in.UserID)

	e.publish(ctx, events.InteractionRecorded{
		InteractionID: out.InteractionID,
		UserID:        in.UserID,
		Signal:        in.Signal,
		Decision:      in.Decision,
		SubjectIDs:    in.SubjectIDs,
		Count:         out.Count,
		Learned:       out.Learned,
		Timestamp:     e.now().UTC(),
	})
	metrics.RecordInteraction(string(in.Signal), string(in.Decision))

	return out
}

// append stores the record and returns the new count together with the
// weights an online update should start from. current is nil when the
// weights could not be read, which disables the online update for this
// call rather than overwriting learned weights with defaults.
//
//nolint:gocritic // hugeParam: interaction passed by value for immutability
func (e *Engine) append(ctx context.Context, in Interaction) (Outcome, recipe.WeightVector, error) {
	var current recipe.WeightVector
	if in.Signal.Learned() {
		w, _, err := e.loadWeights(ctx, in.UserID, in.Signal)
		if err != nil {
			e.logger.Warn().Err(err).Str("user_id", in.UserID).Msg("weight read failed, online update skipped")
		} else {
			current = w
		}
	}

	score := e.predicted(in, current)
	rec, err := e.tracker.Record(ctx, recipe.InteractionRecord{
		UserID:     in.UserID,
		SubjectIDs: in.SubjectIDs,
		Signal:     in.Signal,
		Decision:   in.Decision,
		Features:   in.Features,
		Score:      score,
		Target:     learning.TargetFor(in.Decision),
	})
	if err != nil {
		metrics.RecordStoreError("append_interaction")
		return Outcome{}, nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	count, err := e.tracker.Count(ctx, in.UserID, in.Signal)
	if err != nil {
		// The record is stored; only learning is skipped.
		metrics.RecordStoreError("count_interactions")
		e.logger.Warn().Err(err).Str("user_id", in.UserID).Msg("interaction count failed")
		return Outcome{Recorded: true, InteractionID: rec.ID}, nil, nil
	}

	return Outcome{Recorded: true, InteractionID: rec.ID, Count: count}, current, nil
}

// predicted is the score the user saw. Without a usable submitted score
// the features are scored under current.
//
//nolint:gocritic // hugeParam: interaction passed by value for immutability
func (e *Engine) predicted(in Interaction, current recipe.WeightVector) float64 {
	if in.Score != nil && !math.IsNaN(*in.Score) && *in.Score >= 0 && *in.Score <= 1 {
		return *in.Score
	}
	if len(current) == 0 {
		return 0
	}
	return scoring.Score(in.Features, current).Score
}

// shouldBatch reports whether the count-th interaction schedules a batch
// run: at the threshold and every RetrainEvery interactions after it.
func (e *Engine) shouldBatch(signal recipe.SignalType, count int) bool {
	t := e.cfg.Training
	if !t.BatchEnabled || !signal.Learned() || count < t.MinInteractions {
		return false
	}
	return (count-t.MinInteractions)%t.RetrainEvery == 0
}

