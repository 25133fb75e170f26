// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/recipebox/internal/config"
	"github.com/tomtom215/recipebox/internal/events"
	"github.com/tomtom215/recipebox/internal/logging"
	"github.com/tomtom215/recipebox/internal/metrics"
)

// newEventLogger adapts zerolog to watermill through the slog bridge.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newEventLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger(logger))
}

func newEventBus(cfg *config.EventsConfig, logger watermill.LoggerAdapter) *events.Bus {
	bc := events.DefaultBusConfig()
	if cfg.BufferSize > 0 {
		bc.BufferSize = cfg.BufferSize
	}
	return events.NewBus(bc, logger)
}

// eventHandlers are the in-process consumers of domain events.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func eventHandlers(logger zerolog.Logger) events.Handlers {
	return events.Handlers{
		OnInteractionRecorded: func(_ context.Context, ev events.InteractionRecorded) error {
			logger.Debug().
				Str("interaction_id", ev.InteractionID).
				Str("user_id", ev.UserID).
				Str("signal", string(ev.Signal)).
				Int("count", ev.Count).
				Bool("learned", ev.Learned).
				Msg("interaction recorded")
			return nil
		},
		OnWeightsUpdated: func(_ context.Context, ev events.WeightsUpdated) error {
			metrics.RecordWeightsUpdated(ev.Method)
			logger.Info().
				Str("user_id", ev.UserID).
				Str("signal", string(ev.Signal)).
				Str("method", ev.Method).
				Int("version", ev.Version).
				Msg("weights updated")
			return nil
		},
	}
}

func newEventRouter(cfg *config.EventsConfig, bus *events.Bus, h events.Handlers, logger watermill.LoggerAdapter) (*events.Router, error) {
	rc := events.DefaultRouterConfig()
	rc.RetryMaxRetries = cfg.RetryMaxRetries
	if cfg.RetryInitialInterval > 0 {
		rc.RetryInitialInterval = cfg.RetryInitialInterval
	}
	if cfg.CloseTimeout > 0 {
		rc.CloseTimeout = cfg.CloseTimeout
	}
	rc.ThrottlePerSecond = cfg.ThrottlePerSecond
	return events.NewRouter(rc, bus.Subscriber(), h, logger)
}
