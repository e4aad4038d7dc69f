// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

// Package logging provides the zerolog-based structured logger shared by every
// RuneStatus Sync package.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("world", 302).Msg("Logged in")
//	logging.Warn().Err(err).Msg("Sync failed")
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Debug().Msg("Building snapshot")
//
// # Configuration
//
// Environment Variables (read by internal/config, applied through Init):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Sync attempt logging
//
// Every sync attempt carries an 8-character correlation ID in its context so the
// build, send, and completion lines of one attempt can be grouped. SyncLogger wraps
// the attempt-level messages the orchestrator emits.
//
// Triggers fire at tick rate (0.6s) while a sync is suppressed, so the
// "suppressed" diagnostics go through a Sampler that lets one line through per
// interval and counts the rest.
//
// # Integrations
//
// NewSlogLogger bridges zerolog into log/slog for sutureslog.
//
// Always terminate log chains with .Msg() or .Send().
package logging
