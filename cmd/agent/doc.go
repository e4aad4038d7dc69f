// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package main is the entry point for the RuneStatus sync agent.

The agent connects to the game client plugin over a local WebSocket, mirrors
the player's state, and uploads snapshots of progress to the RuneStatus
tracker whenever something meaningful changes, on a wall-clock interval, or
when the player asks for it.

# Process Layout

All services run under a Suture v4 supervisor tree:

	RootSupervisor ("runestatus-sync")
	├── HostSupervisor ("host-layer")
	│   ├── dispatch loop
	│   └── host-bridge (WebSocket client)
	├── SyncSupervisor ("sync-layer")
	│   ├── sync-agent
	│   └── wallclock-scheduler
	└── APISupervisor ("api-layer")
	    └── api-server (optional)

Every piece of sync state is owned by the dispatch loop. The bridge reader,
the wall-clock scheduler and the HTTP API only post work to it.

# Configuration

Settings are layered with Koanf v2 (highest priority wins):
  - Environment variables (SYNC_ENABLED, TRANSPORT_ENDPOINT, ...)
  - Config file (--config, CONFIG_PATH, or ./config.yaml)
  - Built-in defaults

The sync section is reloaded when the config file changes.

# Flags

	--config     path to the YAML config file
	--log-level  overrides logging.level
*/
package main
