// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package api

// Error codes returned in APIError.Code.
const (
	CodeAgentStopped = "AGENT_STOPPED"
	CodeRateLimited  = "RATE_LIMITED"
	CodeLoopTimeout  = "LOOP_UNAVAILABLE"
)
