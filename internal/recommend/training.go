// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/recipebox/internal/events"
	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/learning"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// Job is a scheduled batch training run.
type Job struct {
	ID         string      `json:"id"`
	Key        storage.Key `json:"key"`
	EnqueuedAt time.Time   `json:"enqueued_at"`

	done   chan struct{}
	once   sync.Once
	result *TrainResult
	err    error
}

// Done is closed when the job has finished, successfully or not.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx is done.
func (j *Job) Wait(ctx context.Context) (*TrainResult, error) {
	select {
	case <-j.done:
		return j.result, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (j *Job) finish(res *TrainResult, err error) {
	j.once.Do(func() {
		j.result, j.err = res, err
		close(j.done)
	})
}

type trainFunc func(ctx context.Context, key storage.Key) (*TrainResult, error)

// TrainingQueue runs batch training jobs on a fixed set of workers. Jobs
// for a key that is already pending are coalesced into the pending job.
// Jobs may be enqueued before Serve starts; they run once it does.
type TrainingQueue struct {
	mu      sync.Mutex
	pending map[storage.Key]*Job
	closed  bool

	jobs    chan *Job
	workers int
	train   trainFunc
	logger  zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newTrainingQueue(size, workers int, train trainFunc, logger zerolog.Logger) *TrainingQueue {
	return &TrainingQueue{
		pending: make(map[storage.Key]*Job),
		jobs:    make(chan *Job, size),
		workers: workers,
		train:   train,
		logger:  logger.With().Str("service", "training-queue").Logger(),
	}
}

// Enqueue schedules training for key. It never blocks: a full queue
// returns ErrQueueFull and a stopped queue returns ErrQueueClosed.
func (q *TrainingQueue) Enqueue(key storage.Key) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrQueueClosed
	}
	if job, ok := q.pending[key]; ok {
		return job, nil
	}

	job := &Job{
		ID:         uuid.NewString(),
		Key:        key,
		EnqueuedAt: time.Now().UTC(),
		done:       make(chan struct{}),
	}
	select {
	case q.jobs <- job:
		q.pending[key] = job
		metrics.SetTrainingQueueDepth(len(q.jobs))
		return job, nil
	default:
		return nil, ErrQueueFull
	}
}

// Pending returns the number of jobs waiting for a worker.
func (q *TrainingQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Serve runs the workers until ctx is done. Jobs still pending at shutdown
// fail with ErrQueueClosed. Serve may be called again after it returns.
func (q *TrainingQueue) Serve(ctx context.Context) error {
	q.mu.Lock()
	q.closed = false
	q.mu.Unlock()

	q.logger.Info().Int("workers", q.workers).Msg("training queue started")

	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.work(ctx)
		}()
	}
	<-ctx.Done()

	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	wg.Wait()
	q.drain()

	q.logger.Info().Msg("training queue stopped")
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logging.
func (q *TrainingQueue) String() string {
	return "training-queue"
}

func (q *TrainingQueue) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.run(ctx, job)
		}
	}
}

func (q *TrainingQueue) run(ctx context.Context, job *Job) {
	q.mu.Lock()
	if q.pending[job.Key] == job {
		delete(q.pending, job.Key)
	}
	metrics.SetTrainingQueueDepth(len(q.jobs))
	q.mu.Unlock()

	if ctx.Err() != nil {
		job.finish(nil, ErrQueueClosed)
		return
	}

	res, err := q.train(ctx, job.Key)
	if err != nil {
		q.logger.Warn().Err(err).
			Str("job_id", job.ID).
			Str("user_id", job.Key.UserID).
			Str("signal", string(job.Key.Signal)).
			Msg("batch training failed")
	}
	job.finish(res, err)
}

func (q *TrainingQueue) drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case job := <-q.jobs:
			delete(q.pending, job.Key)
			job.finish(nil, ErrQueueClosed)
		default:
			metrics.SetTrainingQueueDepth(0)
			return
		}
	}
}

// Train refits the weights for (user, signal) from the most recent
// samples and replaces them with a single write. Nothing is written when
// the fit fails or the run times out.
func (e *Engine) Train(ctx context.Context, userID string, signal recipe.SignalType) (*TrainResult, error) {
	return e.trainKey(ctx, storage.Key{UserID: userID, Signal: signal})
}

func (e *Engine) trainKey(ctx context.Context, key storage.Key) (res *TrainResult, err error) {
	if !key.Signal.Learned() {
		return nil, fmt.Errorf("%w: %s", ErrNoModel, key.Signal)
	}
	if !recipe.ValidID(key.UserID) {
		return nil, fmt.Errorf("%w: invalid user_id %q", ErrInvalidInteraction, key.UserID)
	}

	start := time.Now()
	method := ""
	defer func() {
		metrics.RecordTraining(string(key.Signal), method, time.Since(start), err)
	}()

	unlock := e.locks.Lock(key)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Training.Timeout)
	defer cancel()

	columns := e.cfg.defaultWeights(key.Signal).Keys()
	ds, err := e.tracker.Samples(ctx, key.UserID, key.Signal, columns, e.cfg.Batch.MaxSamples)
	if err != nil {
		metrics.RecordStoreError("recent_interactions")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	fit, err := learning.FitBatch(ds, e.cfg.Batch)
	if err != nil {
		return nil, fmt.Errorf("fit batch: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("training aborted: %w", err)
	}
	method = string(fit.Method)

	version := 1
	prev, err := e.stores.Metrics.GetMetrics(ctx, key.UserID, key.Signal)
	switch {
	case err == nil:
		version = prev.Version + 1
	case !errors.Is(err, storage.ErrNotFound):
		metrics.RecordStoreError("get_metrics")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err := e.stores.Weights.PutWeights(ctx, key.UserID, key.Signal, fit.Weights); err != nil {
		metrics.RecordStoreError("put_weights")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	mm := recipe.ModelMetrics{
		UserID:     key.UserID,
		Signal:     key.Signal,
		Version:    version,
		Method:     string(fit.Method),
		MSE:        fit.MSE,
		R2:         fit.R2,
		Importance: fit.Importance,
		Samples:    fit.Samples,
		TrainedAt:  e.now().UTC(),
	}

	logger := e.logger.With().
		Str("user_id", key.UserID).
		Str("signal", string(key.Signal)).
		Int("version", version).
		Logger()

	// The weights are live at this point; metrics and snapshots are
	// best effort.
	if err := e.stores.Metrics.PutMetrics(ctx, mm); err != nil {
		metrics.RecordStoreError("put_metrics")
		logger.Warn().Err(err).Msg("model metrics write failed")
	}
	if e.snapshots != nil {
		if _, err := e.snapshots.Save(ctx, storage.Snapshot{Weights: fit.Weights, Metrics: mm}); err != nil {
			logger.Warn().Err(err).Msg("weight snapshot failed")
		}
	}

	e.publish(ctx, events.WeightsUpdated{
		UserID:  key.UserID,
		Signal:  key.Signal,
		Method:  string(fit.Method),
		Version: version,
		Weights: fit.Weights,
		At:      mm.TrainedAt,
	})

	logger.Info().
		Str("method", string(fit.Method)).
		Int("samples", fit.Samples).
		Float64("mse", fit.MSE).
		Float64("r2", fit.R2).
		Msg("batch training complete")

	return &TrainResult{Key: key, Weights: fit.Weights, Metrics: mm}, nil
}

// Retrain enqueues a batch job for (user, signal) without waiting.
func (e *Engine) Retrain(userID string, signal recipe.SignalType) (*Job, error) {
	if !signal.Learned() {
		return nil, fmt.Errorf("%w: %s", ErrNoModel, signal)
	}
	if !recipe.ValidID(userID) {
		return nil, fmt.Errorf("%w: invalid user_id %q", ErrInvalidInteraction, userID)
	}
	return e.queue.Enqueue(storage.Key{UserID: userID, Signal: signal})
}

// RetrainAll enqueues a batch job for every (user, signal) pair with at
// least MinInteractions samples and returns how many were scheduled.
// Keys whose job cannot be enqueued are skipped.
func (e *Engine) RetrainAll(ctx context.Context) (int, error) {
	keys, err := e.stores.Interactions.InteractionKeys(ctx)
	if err != nil {
		metrics.RecordStoreError("interaction_keys")
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	scheduled := 0
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return scheduled, err
		}
		if !k.Signal.Learned() {
			continue
		}
		n, err := e.tracker.Count(ctx, k.UserID, k.Signal)
		if err != nil || !e.tracker.ShouldLearn(n) {
			continue
		}
		if _, err := e.queue.Enqueue(k); err != nil {
			if errors.Is(err, ErrQueueClosed) {
				return scheduled, err
			}
			e.logger.Debug().Err(err).Str("key", k.String()).Msg("retrain sweep skipped key")
			continue
		}
		scheduled++
	}
	return scheduled, nil
}
