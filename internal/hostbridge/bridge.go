// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package hostbridge

import (
	"errors"

	"github.com/tomtom215/runestatus-sync/internal/dispatch"
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
)

// Bridge moves decoded frames from the connection goroutine onto the
// dispatch loop, where the Mirror is patched and events are published.
type Bridge struct {
	mirror *Mirror
	bus    *host.Bus
	poster dispatch.Poster
}

// NewBridge creates a bridge that feeds mirror and bus through poster.
func NewBridge(mirror *Mirror, bus *host.Bus, poster dispatch.Poster) *Bridge {
	return &Bridge{mirror: mirror, bus: bus, poster: poster}
}

// HandleFrame decodes one text frame. Safe to call from any goroutine.
func (b *Bridge) HandleFrame(data []byte) {
	f, err := DecodeFrame(data)
	if err != nil {
		if errors.Is(err, ErrUnknownFrame) {
			metrics.RecordBridgeFrame("unknown")
			logging.Debug().Str("type", f.Type).Msg("Ignoring unknown bridge frame")
		} else {
			metrics.RecordBridgeFrame("invalid")
			logging.Warn().Err(err).Msg("Dropping malformed bridge frame")
		}
		return
	}
	metrics.RecordBridgeFrame(f.Type)
	b.poster.Post(func() { b.apply(f) })
}

func (b *Bridge) apply(f Frame) {
	switch {
	case f.State != nil:
		b.mirror.Replace(f.State)
	case f.Event != nil:
		b.mirror.Apply(f.Event)
		b.bus.Publish(f.Event)
	case f.Type == FrameButtonClicked:
		if !b.mirror.Click(f.ButtonGroup) {
			logging.Debug().Int("group_id", f.ButtonGroup).Msg("Click on unregistered button")
		}
	}
}

// HandleConnected runs after the plugin connects.
func (b *Bridge) HandleConnected() {
	metrics.SetBridgeConnected(true)
	b.poster.Post(b.mirror.ResendButtons)
}

// HandleDisconnected runs after the connection drops. The session is treated
// as interrupted: any running capture is abandoned but the session survives
// until the plugin reports a new state.
func (b *Bridge) HandleDisconnected() {
	metrics.SetBridgeConnected(false)
	b.poster.Post(func() {
		b.mirror.Reset()
		ev := host.GameStateChanged{State: host.GameStateConnectionLost}
		b.mirror.Apply(ev)
		b.bus.Publish(ev)
	})
}
