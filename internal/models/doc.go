// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package models defines the data structures shared across the agent.

Model Categories:

1. Wire Models (sent to the tracker):
  - Snapshot: one upload of player progress
  - SkillData, DiaryData, CombatAchievementData: per-category payloads
  - CollectionLogEntry, CollectionLogCounts: collection log items and totals

2. API Response Models (local status API):
  - APIResponse: standard envelope with APIError and Metadata
  - HealthStatus, AgentStatus, SyncResult, SyncAccepted

Absent Versus Empty:

A Snapshot distinguishes a category that could not be read from one that was
read and is empty. Nil maps and slices are omitted from the JSON body;
non-nil empty ones are sent as {} or []. Callers must only leave a field nil
when the data is genuinely unavailable or disabled.

Thread Safety:

Models are plain data with no internal locking. A Snapshot is built on the
dispatch loop and handed to the transport goroutine without further
mutation.
*/
package models
