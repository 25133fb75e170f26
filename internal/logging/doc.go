// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package logging provides the zerolog-based structured logger used across
// Recipebox.
//
// A single global logger is configured once from main with Init and read
// everywhere else through Logger, the level helpers, or Ctx. Components
// take a zerolog.Logger in their constructors and tag it with
// WithComponent, so tests can pass zerolog.Nop().
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	log := logging.WithComponent("recommend")
//	log.Info().Str("user_id", uid).Msg("weights updated")
//
// Request handling stores request, correlation and user IDs in the
// context; Ctx(ctx) returns a logger carrying whichever are present.
//
// Libraries that log through log/slog (suture via sutureslog, watermill via
// its slog adapter) are bridged with NewSlogLogger, which forwards records
// to zerolog.
//
// Environment variables LOG_LEVEL, LOG_FORMAT and LOG_CALLER are applied
// by the config package, not read here.
package logging
