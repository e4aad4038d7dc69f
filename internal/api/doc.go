// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package api serves the agent's local HTTP surface.

Routes:

	GET  /healthz   liveness plus host bridge connectivity
	GET  /status    agent state (in-flight send, last result, capture state, cache)
	POST /sync      manual sync, equivalent to clicking the in-game button
	GET  /metrics   Prometheus exposition

Handlers never touch orchestration state directly. Every read or trigger is
run on the dispatch loop through Doer.Do, so the API observes the same
single-threaded view of the agent as host events do.

POST /sync is rate limited per client IP with go-chi/httprate on top of the
agent's own manual spacing.
*/
package api
