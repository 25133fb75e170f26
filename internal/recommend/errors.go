// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import "errors"

var (
	// ErrQueueFull is returned when the training queue cannot accept a job.
	ErrQueueFull = errors.New("training queue full")

	// ErrQueueClosed is returned for jobs enqueued or pending after shutdown.
	ErrQueueClosed = errors.New("training queue closed")

	// ErrInvalidInteraction is returned for interactions that cannot be
	// recorded as submitted.
	ErrInvalidInteraction = errors.New("invalid interaction")

	// ErrStoreUnavailable wraps storage failures surfaced by the engine.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNoModel is returned when training is requested for a signal that
	// has no weight vector.
	ErrNoModel = errors.New("signal has no model")
)
