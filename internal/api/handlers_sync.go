// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package api

import (
	"net/http"

	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/models"
	syncagent "github.com/tomtom215/runestatus-sync/internal/sync"
)

// Status returns the agent state as seen from the dispatch loop.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var st syncagent.Status
	if err := h.onLoop(r, func() { st = h.agent.Status() }); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeLoopTimeout, "Agent is not responding", err)
		return
	}

	out := toAgentStatus(st)
	out.BridgeConnected = h.bridgeConnected()
	respondData(w, r, http.StatusOK, out)
}

// TriggerSync runs the manual trigger flow. 202 means the request was
// dispatched, either as an immediate send or a full collection-log capture.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	var running, dispatched bool
	err := h.onLoop(r, func() {
		running = h.agent.Status().Running
		if running {
			dispatched = h.agent.TriggerManual(syncagent.SourceAPI)
		}
	})

	switch {
	case err != nil:
		respondError(w, r, http.StatusServiceUnavailable, CodeLoopTimeout, "Agent is not responding", err)
	case !running:
		respondError(w, r, http.StatusServiceUnavailable, CodeAgentStopped, "Sync agent is not running", nil)
	case !dispatched:
		respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, "A sync was requested too recently or is already in flight", nil)
	default:
		logging.Ctx(r.Context()).Info().Msg("Manual sync requested through the local API")
		respondData(w, r, http.StatusAccepted, models.SyncAccepted{Source: syncagent.SourceAPI})
	}
}

func toAgentStatus(st syncagent.Status) models.AgentStatus {
	out := models.AgentStatus{
		Running:       st.Running,
		Enabled:       st.Enabled,
		LoggedIn:      st.LoggedIn,
		InFlight:      st.InFlight,
		Sends:         st.Sends,
		CaptureState:  st.CaptureState,
		CollectionLog: st.CollectionLog,
		CacheSize:     st.CacheSize,
		RecentDrops:   st.RecentDrops,
	}
	if !st.LastSyncAt.IsZero() {
		at := st.LastSyncAt
		out.LastSyncAt = &at
	}
	if res := st.LastResult; res != nil {
		out.LastResult = &models.SyncResult{
			At:      res.At,
			Source:  res.Source,
			Kind:    res.Kind.String(),
			Success: res.Success,
		}
		if res.Err != nil {
			out.LastResult.Error = res.Err.Error()
		}
	}
	return out
}
