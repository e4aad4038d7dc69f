// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package services adapts agent components to suture.Service.

  - AgentService: drives the agent's Start/Stop lifecycle, running both on
    the dispatch loop so they never race host events.
  - HTTPServerService: wraps *http.Server with graceful shutdown.

The dispatch loop, host bridge client and wall-clock scheduler already
implement Serve(ctx) and are added to the tree directly.
*/
package services
