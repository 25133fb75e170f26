// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package candidates

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// BreakerConfig configures the circuit breaker of a ResilientSource.
type BreakerConfig struct {
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive
	// failures.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "candidate-source",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// ResilientSource guards a Source with a circuit breaker.
type ResilientSource struct {
	next    Source
	breaker *gobreaker.CircuitBreaker[[]recipe.Recipe]
}

// NewResilientSource wraps next. onStateChange may be nil.
func NewResilientSource(next Source, cfg BreakerConfig, onStateChange func(name string, from, to gobreaker.State)) *ResilientSource {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller giving up is not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: onStateChange,
	}
	return &ResilientSource{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[[]recipe.Recipe](settings),
	}
}

// FetchBatch calls the wrapped source unless the breaker is open.
func (s *ResilientSource) FetchBatch(ctx context.Context, n int) ([]recipe.Recipe, error) {
	out, err := s.breaker.Execute(func() ([]recipe.Recipe, error) {
		return s.next.FetchBatch(ctx, n)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, err.Error())
	}
	return out, err
}

// State returns the breaker state name ("closed", "half-open", "open").
func (s *ResilientSource) State() string {
	return s.breaker.State().String()
}
