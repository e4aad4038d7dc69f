// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

const (
	// QuiescenceTicks is how many ticks must pass with no row update before a
	// capture is considered complete.
	QuiescenceTicks = 2

	// EmptyCaptureTimeoutTicks bounds a capture that never receives a row.
	EmptyCaptureTimeoutTicks = 10
)

// CaptureState is the state of a CaptureStateMachine.
type CaptureState int

// Capture states.
const (
	CaptureIdle CaptureState = iota
	CaptureCapturing
)

func (s CaptureState) String() string {
	if s == CaptureCapturing {
		return "capturing"
	}
	return "idle"
}

// CaptureComplete receives the rows gathered by one capture session. The map
// belongs to the callee.
type CaptureComplete func(entries map[int]models.CollectionLogEntry)

// CaptureStateMachine gathers collection log rows delivered one event at a
// time across several host ticks. Time is whatever tick numbers the caller
// passes in; the machine never reads a clock itself.
type CaptureStateMachine struct {
	state          CaptureState
	startTick      int
	lastUpdateTick int
	updated        bool
	accumulated    map[int]models.CollectionLogEntry
	onComplete     CaptureComplete
	log            zerolog.Logger
}

// NewCaptureStateMachine returns an idle machine.
func NewCaptureStateMachine() *CaptureStateMachine {
	return &CaptureStateMachine{log: logging.WithComponent("capture")}
}

// Start begins a session at tick. It returns false, leaving the running
// session untouched, if a session is already active.
func (c *CaptureStateMachine) Start(tick int, onComplete CaptureComplete) bool {
	if c.state == CaptureCapturing {
		c.log.Debug().Int("tick", tick).Int("started_at", c.startTick).Msg("Capture already running, ignoring start")
		return false
	}
	c.state = CaptureCapturing
	c.startTick = tick
	c.lastUpdateTick = tick
	c.updated = false
	c.accumulated = make(map[int]models.CollectionLogEntry)
	c.onComplete = onComplete
	c.log.Debug().Int("tick", tick).Msg("Capture started")
	return true
}

// OnItemUpdate records one row. Later updates for the same item replace
// earlier ones. Ignored while idle.
func (c *CaptureStateMachine) OnItemUpdate(itemID, quantity, tick int) {
	if c.state != CaptureCapturing {
		return
	}
	c.accumulated[itemID] = models.NewCollectionLogEntry(quantity)
	c.lastUpdateTick = tick
	c.updated = true
}

// OnClockTick completes the session once tick is more than QuiescenceTicks past
// the last update, or more than EmptyCaptureTimeoutTicks past the start when no
// update ever arrived.
func (c *CaptureStateMachine) OnClockTick(tick int) {
	if c.state != CaptureCapturing {
		return
	}

	outcome := metrics.CaptureCompleted
	switch {
	case c.updated && tick > c.lastUpdateTick+QuiescenceTicks:
	case !c.updated && tick > c.startTick+EmptyCaptureTimeoutTicks:
		outcome = metrics.CaptureTimedOut
	default:
		return
	}

	entries, done := c.accumulated, c.onComplete
	c.reset()

	metrics.RecordCapture(outcome, len(entries))
	c.log.Debug().Int("tick", tick).Int("items", len(entries)).Str("outcome", outcome).Msg("Capture finished")

	if done != nil {
		done(entries)
	}
}

// OnSessionEnd drops the running session without calling its callback.
func (c *CaptureStateMachine) OnSessionEnd() {
	if c.state != CaptureCapturing {
		return
	}
	c.log.Debug().Int("items", len(c.accumulated)).Msg("Capture cancelled by session end")
	metrics.RecordCapture(metrics.CaptureCancelled, 0)
	c.reset()
}

func (c *CaptureStateMachine) reset() {
	c.state = CaptureIdle
	c.startTick = 0
	c.lastUpdateTick = 0
	c.updated = false
	c.accumulated = nil
	c.onComplete = nil
}

// State returns the current state.
func (c *CaptureStateMachine) State() CaptureState { return c.state }

// Active reports whether a session is running.
func (c *CaptureStateMachine) Active() bool { return c.state == CaptureCapturing }

// Len returns the number of distinct items in the running session.
func (c *CaptureStateMachine) Len() int { return len(c.accumulated) }
