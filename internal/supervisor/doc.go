// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package supervisor runs the agent's long-lived services under suture v4.

The tree isolates failures by layer:

	RootSupervisor ("runestatus-sync")
	├── HostSupervisor ("host-layer")
	│   ├── dispatch loop
	│   └── host bridge client
	├── SyncSupervisor ("sync-layer")
	│   ├── AgentService
	│   └── wall-clock scheduler
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (if api.enabled)

A bridge that keeps failing to connect backs off inside its own service and
never restarts the dispatch loop. A crashed HTTP server does not touch the
agent's rate limiter or capture state.

Supervisor events are logged through sutureslog on top of the zerolog slog
adapter, so restarts appear in the same structured log as everything else.
*/
package supervisor
