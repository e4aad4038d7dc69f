// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package models

import (
	"time"
)

// APIResponse is the envelope every local API endpoint returns.
//
// Status is "success" with Data set, or "error" with Error set:
//
//	{
//	  "status": "success",
//	  "data": {"running": true, "logged_in": true, ...},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status          string  `json:"status"` // "healthy" or "degraded"
	Version         string  `json:"version"`
	BridgeConnected bool    `json:"bridge_connected"`
	Uptime          float64 `json:"uptime_seconds"`
}

// SyncResult is the outcome of the most recent send.
type SyncResult struct {
	At      time.Time `json:"at"`
	Source  string    `json:"source"`
	Kind    string    `json:"kind"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// AgentStatus is returned by the status endpoint.
type AgentStatus struct {
	Running       bool        `json:"running"`
	Enabled       bool        `json:"enabled"`
	LoggedIn      bool        `json:"logged_in"`
	InFlight      bool        `json:"in_flight"`
	Sends         int         `json:"sends"`
	LastSyncAt    *time.Time  `json:"last_sync_at,omitempty"`
	LastResult    *SyncResult `json:"last_result,omitempty"`
	CaptureState  string      `json:"capture_state"`
	CollectionLog bool        `json:"collection_log_open"`
	CacheSize     int         `json:"collection_log_cached"`
	RecentDrops   int         `json:"recent_drops"`

	BridgeConnected bool `json:"bridge_connected"`
}

// SyncAccepted is returned when a manual sync request was dispatched.
type SyncAccepted struct {
	Source string `json:"source"`
}
