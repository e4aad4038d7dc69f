// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package hostbridge connects the agent to the companion plugin running inside
the game client.

The plugin speaks JSON text frames over a local WebSocket. Inbound frames
carry either a full state mirror or a single event:

	{"type":"state","player":"Zezima","world":302,"tick":1200,"skills":[...],...}
	{"type":"tick","tick":1201}
	{"type":"game_state","state":"LOGGED_IN"}
	{"type":"stat_changed","skill":"Attack","level":99,"xp":13034431}
	{"type":"chat","chat_type":"GAMEMESSAGE","text":"..."}
	{"type":"widget_loaded","group_id":621}
	{"type":"script_pre_fired","script_id":4100,"args":[0,995,200000]}
	{"type":"button_clicked","group_id":621}

Outbound commands ask the plugin to act on the agent's behalf:

	{"type":"run_script","script_id":2240}
	{"type":"chat","text":"RuneStatus: Data synced successfully!"}
	{"type":"register_button","group_id":621,"label":"RuneStatus"}

Components:

  - Client: gorilla/websocket connection with exponential reconnect
    (1s to 32s), ping keep-alive and read deadline. Runs as a suture service.
  - Mirror: the last known host state. Implements host.Client so the sync
    core reads it exactly as it would read the game client.
  - Bridge: decodes frames on the reader goroutine, then posts them onto the
    dispatch loop where the Mirror is updated and the event is published.

Thread safety: the Mirror and the host bus are owned by the dispatch loop.
Client is safe for concurrent use.
*/
package hostbridge
