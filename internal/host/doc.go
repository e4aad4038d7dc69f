// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package host defines the narrow surface through which the agent sees the game
client it is embedded in.

The game client owns its widget tree, script VM, and clock. The agent only
consumes them through small capability interfaces:

  - IdentitySource: local player name, account type, world, combat level
  - ClockSource: current tick count (ticks themselves arrive as GameTick events)
  - StatSource: per-skill boosted/real level and experience
  - QuestSource: quest states
  - VarSource: varbit values (diary and combat achievement tiers)
  - ProgressScriptSource: run a host script by id and read its int stack
  - WidgetSource: widget text, children, visibility by component id
  - EquipmentSource: worn item ids by slot
  - Notifier: transient in-game chat notification
  - ScriptRunner: fire-and-forget script invocation (collection log bulk load)
  - UITrigger: externally injected button that calls back on click

Every read returns (value, ok). A false ok is an ordinary outcome, typically
the host being mid-transition (login, world hop, interface rebuilding), and
callers treat it as "no data" rather than an error.

Events flow through Bus. Publish and handler execution both happen on the
dispatch loop, so handlers may touch orchestration state without locks.
Subscribe returns a Subscription handle that must be released on shutdown.
*/
package host
