// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package dispatch provides the single-threaded dispatch loop that owns all
orchestration state, plus a wall-clock scheduler that feeds it.

The game client delivers every event on one cooperative thread synchronized to
its tick. The agent reproduces that model: host frames, network completions,
timer firings and API requests never touch orchestration state directly, they
Post a closure onto the Loop and the Loop runs closures one at a time in
arrival order.

Components:

  - Loop: unbounded FIFO of closures executed by one goroutine (Serve).
    Post never blocks, so code already running on the loop may Post safely.
    Do posts and waits for completion, for callers outside the loop.
  - Scheduler: a time.Ticker that Posts a callback every interval. The host
    tick clock stops while the client is unfocused or between sessions, so
    periodic checks must not depend on it alone.

Both implement suture.Service (Serve(ctx) error plus String()).
*/
package dispatch
