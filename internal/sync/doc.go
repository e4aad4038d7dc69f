// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package sync decides when to push a player snapshot to RuneStatus and builds it.

Key Components:

  - Agent: the orchestrator context. Owns every component below, subscribes them
    to the host event bus, and exposes status and manual triggers to the API.
  - TriggerRouter: turns host events (login, level up, chat drops, collection log
    open/close, ticks, wall-clock checks, the injected button) into sync requests.
  - RateLimiter: ambient requests need the configured interval since the last
    sync; manual requests need 30 seconds.
  - SyncGuard: at most one send in flight. Builds the snapshot synchronously,
    sends it on its own goroutine, and posts completion back to the loop.
  - CaptureStateMachine: collects collection log rows that the host delivers as a
    burst of script events over several ticks, and completes after two quiet ticks.
  - CollectionLogTracker: feeds script events into the state machine, owns the
    per-session collection log cache and the "Unique: X/Y" counts.
  - SnapshotBuilder and HostReader: read each category through its own accessor
    and leave out whatever the host cannot provide yet.
  - HTTPTransport and BreakerTransport: POST the snapshot as JSON behind a
    circuit breaker.

Threading:

Everything except the HTTP request runs on the dispatch loop (internal/dispatch).
None of the types here lock; they rely on the loop to serialize access. The only
goroutine started by this package is the one performing the send, and it hands
its result back through dispatch.Poster before touching any state.

Usage Example:

	loop := dispatch.NewLoop()
	agent := sync.NewAgent(sync.AgentDeps{
	    Host:      mirror,
	    Bus:       bus,
	    Poster:    loop,
	    Settings:  store,
	    Transport: sync.NewBreakerTransport(sync.NewHTTPTransport(cfg.Transport), cfg.Transport),
	})
	loop.Post(func() { _ = agent.Start(ctx) })
*/
package sync
