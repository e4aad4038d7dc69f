// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/runestatus-sync/internal/models"
	syncagent "github.com/tomtom215/runestatus-sync/internal/sync"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// loopTimeout bounds how long a handler waits for the dispatch loop.
const loopTimeout = 5 * time.Second

// Controller is the agent surface the API drives. Methods are only called on
// the dispatch loop.
type Controller interface {
	Status() syncagent.Status
	TriggerManual(source string) bool
}

// Doer runs a closure on the dispatch loop and waits for it.
type Doer interface {
	Do(ctx context.Context, fn func()) error
}

// ConnectionState reports whether the host bridge is connected.
type ConnectionState interface {
	IsConnected() bool
}

// Handler holds the API's dependencies.
type Handler struct {
	agent     Controller
	loop      Doer
	bridge    ConnectionState
	startTime time.Time
}

// NewHandler creates a handler. bridge may be nil when no host bridge runs.
func NewHandler(agent Controller, loop Doer, bridge ConnectionState) *Handler {
	return &Handler{agent: agent, loop: loop, bridge: bridge, startTime: time.Now()}
}

func (h *Handler) bridgeConnected() bool {
	return h.bridge != nil && h.bridge.IsConnected()
}

// onLoop runs fn on the dispatch loop, bounded by loopTimeout.
func (h *Handler) onLoop(r *http.Request, fn func()) error {
	ctx, cancel := context.WithTimeout(r.Context(), loopTimeout)
	defer cancel()
	return h.loop.Do(ctx, fn)
}

// Health reports liveness. The agent is degraded, not down, while the host
// bridge is disconnected: it keeps its limiter state and reconnects.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	connected := h.bridgeConnected()
	status := "healthy"
	if !connected {
		status = "degraded"
	}

	respondData(w, r, http.StatusOK, healthStatus(status, connected, time.Since(h.startTime)))
}

func healthStatus(status string, connected bool, uptime time.Duration) models.HealthStatus {
	return models.HealthStatus{
		Status:          status,
		Version:         Version,
		BridgeConnected: connected,
		Uptime:          uptime.Seconds(),
	}
}
