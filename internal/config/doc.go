// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package config loads agent configuration using Koanf v2.

Sources are layered, highest priority last:

 1. Struct defaults (defaultConfig)
 2. YAML file: the --config flag, CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables (see envTransformFunc for the full mapping)

Example config.yaml:

	sync:
	  enabled: true
	  interval_minutes: 5
	  collection_log: true
	  show_notification: false
	transport:
	  endpoint: https://api.runestatus.gg/plugin/sync
	  timeout: 30s
	host:
	  bridge_url: ws://127.0.0.1:7373/bridge
	api:
	  listen_addr: 127.0.0.1:7374

The sync section can change at runtime. Store holds the current SyncConfig
behind an atomic pointer; WatchConfigFile plus Store.Reload swap it when the
file changes. Other sections are read once at startup.
*/
package config
