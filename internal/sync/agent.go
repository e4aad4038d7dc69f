// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/runestatus-sync/internal/dispatch"
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/logging"
)

// ErrAgentRunning is returned by Start when the agent is already attached.
var ErrAgentRunning = errors.New("sync agent already running")

// ButtonLabel is the text of the injected collection log menu entry.
const ButtonLabel = "RuneStatus"

// AgentDeps are the collaborators of an Agent.
type AgentDeps struct {
	Host      host.Client
	Bus       *host.Bus
	Poster    dispatch.Poster
	Settings  Settings
	Transport Transport

	// Reader overrides the host-backed data reader. Tests use it.
	Reader Reader
	Now    func() time.Time
}

// Agent wires the sync components together for one process. It owns every
// piece of orchestration state, so all of its methods must run on the
// dispatch loop.
type Agent struct {
	host     host.Client
	bus      *host.Bus
	settings Settings

	limiter *RateLimiter
	capture *CaptureStateMachine
	tracker *CollectionLogTracker
	drops   *RecentDrops
	guard   *SyncGuard
	router  *TriggerRouter

	subs    host.Subscriptions
	running bool
	cancel  context.CancelFunc
}

// NewAgent assembles an agent. Nothing is subscribed until Start.
func NewAgent(deps AgentDeps) *Agent {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	reader := deps.Reader
	if reader == nil {
		reader = NewHostReader(deps.Host)
	}

	settings := deps.Settings
	limiter := NewRateLimiter(func() time.Duration {
		return settings.Sync().AmbientInterval()
	})
	capture := NewCaptureStateMachine()
	tracker := NewCollectionLogTracker(capture, deps.Host, deps.Host)
	drops := &RecentDrops{}
	builder := NewSnapshotBuilder(reader, tracker, drops)
	builder.now = now

	guard := NewSyncGuard(GuardDeps{
		Reader:    reader,
		Builder:   builder,
		Transport: deps.Transport,
		Limiter:   limiter,
		Poster:    deps.Poster,
		Notifier:  deps.Host,
		Settings:  settings,
		Now:       now,
	})

	router := NewTriggerRouter(RouterDeps{
		Guard:    guard,
		Limiter:  limiter,
		Tracker:  tracker,
		Drops:    drops,
		Stats:    deps.Host,
		Clock:    deps.Host,
		Notifier: deps.Host,
		Poster:   deps.Poster,
		Settings: settings,
		Now:      now,
	})

	return &Agent{
		host:     deps.Host,
		bus:      deps.Bus,
		settings: settings,
		limiter:  limiter,
		capture:  capture,
		tracker:  tracker,
		drops:    drops,
		guard:    guard,
		router:   router,
	}
}

// Start subscribes the router and registers the manual button. Sends started
// afterwards inherit ctx.
func (a *Agent) Start(ctx context.Context) error {
	if a.running {
		return ErrAgentRunning
	}
	ctx, a.cancel = context.WithCancel(ctx)
	a.guard.SetContext(ctx)

	a.subs = a.router.Subscribe(a.bus)
	a.subs.Add(a.host.RegisterButton(CollectionLogGroupID, ButtonLabel, func() {
		a.router.TriggerManual(SourceButton)
	}))
	a.running = true

	logging.Info().
		Bool("enabled", a.settings.Sync().Enabled).
		Dur("interval", a.settings.Sync().AmbientInterval()).
		Msg("Sync agent started")
	return nil
}

// Stop detaches from the host. A send in flight is cancelled; its completion
// still arrives and is applied. Stop is idempotent.
func (a *Agent) Stop() {
	if !a.running {
		return
	}
	a.running = false
	a.subs.Unsubscribe()
	a.tracker.CancelCapture()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	logging.Info().Msg("Sync agent stopped")
}

// TriggerManual runs the manual flow for a non-button source such as the
// local API.
func (a *Agent) TriggerManual(source string) bool {
	if !a.running {
		return false
	}
	return a.router.TriggerManual(source)
}

// WallclockCheck runs the interval check independent of host ticks.
func (a *Agent) WallclockCheck() {
	if !a.running {
		return
	}
	a.router.WallclockCheck()
}

// Status is a point-in-time copy of the agent state.
type Status struct {
	Running       bool
	Enabled       bool
	LoggedIn      bool
	InFlight      bool
	Sends         int
	LastSyncAt    time.Time
	LastResult    *Result
	CaptureState  string
	CollectionLog bool
	CacheSize     int
	RecentDrops   int
}

// Status snapshots the agent state.
func (a *Agent) Status() Status {
	return Status{
		Running:       a.running,
		Enabled:       a.settings.Sync().Enabled,
		LoggedIn:      a.router.LoggedIn(),
		InFlight:      a.guard.InFlight(),
		Sends:         a.guard.Sends(),
		LastSyncAt:    a.limiter.LastSyncAt(),
		LastResult:    a.guard.LastResult(),
		CaptureState:  a.capture.State().String(),
		CollectionLog: a.tracker.Open(),
		CacheSize:     a.tracker.CacheSize(),
		RecentDrops:   a.drops.Len(),
	}
}
