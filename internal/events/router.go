// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig configures event consumption.
type RouterConfig struct {
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	// ThrottlePerSecond limits handler throughput. Zero disables it.
	ThrottlePerSecond int64
}

// DefaultRouterConfig returns the production router settings.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
	}
}

// Handlers are the typed consumers. A nil handler skips its topic.
type Handlers struct {
	OnInteractionRecorded func(ctx context.Context, ev InteractionRecorded) error
	OnWeightsUpdated      func(ctx context.Context, ev WeightsUpdated) error
}

// Router consumes domain events from a subscriber.
type Router struct {
	router *message.Router
	logger watermill.LoggerAdapter
}

// NewRouter builds a router with recovery and retry middleware and
// registers h against sub.
func NewRouter(cfg RouterConfig, sub message.Subscriber, h Handlers, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wm, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: recoverer, retry, throttle.
	wm.AddMiddleware(middleware.Recoverer)
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      2,
			Logger:          logger,
		}
		wm.AddMiddleware(retry.Middleware)
	}
	if cfg.ThrottlePerSecond > 0 {
		wm.AddMiddleware(middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second).Middleware)
	}

	if h.OnInteractionRecorded != nil {
		fn := h.OnInteractionRecorded
		wm.AddConsumerHandler("interaction-recorded", TopicInteractionRecorded, sub, func(msg *message.Message) error {
			ev, err := Decode[InteractionRecorded](msg)
			if err != nil {
				// Malformed payloads never succeed on retry.
				logger.Error("dropping malformed event", err, watermill.LogFields{"topic": TopicInteractionRecorded})
				return nil
			}
			return fn(msg.Context(), ev)
		})
	}
	if h.OnWeightsUpdated != nil {
		fn := h.OnWeightsUpdated
		wm.AddConsumerHandler("weights-updated", TopicWeightsUpdated, sub, func(msg *message.Message) error {
			ev, err := Decode[WeightsUpdated](msg)
			if err != nil {
				logger.Error("dropping malformed event", err, watermill.LogFields{"topic": TopicWeightsUpdated})
				return nil
			}
			return fn(msg.Context(), ev)
		})
	}

	return &Router{router: wm, logger: logger}, nil
}

// Serve runs the router until ctx is cancelled. It satisfies suture.Service.
func (r *Router) Serve(ctx context.Context) error {
	err := r.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting up to CloseTimeout for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

// String implements fmt.Stringer for supervisor logs.
func (r *Router) String() string {
	return "event-router"
}
