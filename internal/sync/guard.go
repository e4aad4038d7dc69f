// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"context"
	"time"

	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/dispatch"
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// Notification texts shown in the game chat.
const (
	MessageSyncing = "RuneStatus: Syncing data..."
	MessageSuccess = "RuneStatus: Data synced successfully!"
	MessageFailure = "RuneStatus: Sync failed!"
)

// TriggerKind separates passive observation from a direct user action.
type TriggerKind int

// Trigger kinds.
const (
	Ambient TriggerKind = iota
	Manual
)

func (k TriggerKind) String() string {
	if k == Manual {
		return "manual"
	}
	return "ambient"
}

// Trigger sources, used as the metric and log label.
const (
	SourceLogin       = "login"
	SourceLevelUp     = "level_up"
	SourceChat        = "chat"
	SourceClogClose   = "clog_close"
	SourceTick        = "tick"
	SourceWallclock   = "wallclock"
	SourceButton      = "button"
	SourceAPI         = "api"
	SourceFullCapture = "full_capture"
)

// Request is one sync request handed to the guard.
type Request struct {
	Kind   TriggerKind
	Source string

	// Captured is the output of a capture completed for this request, if any.
	Captured map[int]models.CollectionLogEntry
}

// Settings is the read-only view of the sync configuration.
type Settings interface {
	Sync() config.SyncConfig
}

// Result describes the last completed attempt.
type Result struct {
	At      time.Time
	Source  string
	Kind    TriggerKind
	Success bool
	Err     error
}

// SyncGuard allows at most one snapshot send at a time. All methods must be
// called on the dispatch loop; the send itself runs on its own goroutine and
// reports back through the poster.
type SyncGuard struct {
	identity  Reader
	builder   *SnapshotBuilder
	transport Transport
	limiter   *RateLimiter
	poster    dispatch.Poster
	notifier  host.Notifier
	settings  Settings
	now       func() time.Time
	log       *logging.SyncLogger

	ctx      context.Context
	inFlight bool
	last     *Result
	sends    int
}

// GuardDeps are the collaborators of a SyncGuard.
type GuardDeps struct {
	Reader    Reader
	Builder   *SnapshotBuilder
	Transport Transport
	Limiter   *RateLimiter
	Poster    dispatch.Poster
	Notifier  host.Notifier
	Settings  Settings
	Now       func() time.Time
}

// NewSyncGuard creates a guard.
func NewSyncGuard(deps GuardDeps) *SyncGuard {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SyncGuard{
		identity:  deps.Reader,
		builder:   deps.Builder,
		transport: deps.Transport,
		limiter:   deps.Limiter,
		poster:    deps.Poster,
		notifier:  deps.Notifier,
		settings:  deps.Settings,
		now:       now,
		log:       logging.NewSyncLogger(),
		ctx:       context.Background(),
	}
}

// SetContext sets the parent context of future sends. Cancelling it aborts
// a send in progress; its completion is still delivered.
func (g *SyncGuard) SetContext(ctx context.Context) {
	g.ctx = ctx
}

// RequestSync builds and dispatches a snapshot unless a send is already in
// flight or the player is not yet identifiable. It reports whether a send
// was dispatched. Rate limiting is the caller's job.
func (g *SyncGuard) RequestSync(req Request) bool {
	if g.inFlight {
		metrics.RecordSyncRequest(req.Source, metrics.OutcomeInFlight)
		g.log.Suppressed(req.Source, metrics.OutcomeInFlight)
		return false
	}

	id, ok := g.identity.Identity()
	if !ok {
		metrics.RecordSyncRequest(req.Source, metrics.OutcomeNoIdentity)
		logging.Debug().Str("trigger", req.Source).Msg("Cannot sync, no player name available")
		return false
	}

	g.inFlight = true
	g.sends++
	metrics.SyncInFlight.Set(1)
	metrics.RecordSyncRequest(req.Source, metrics.OutcomeDispatched)

	ctx := logging.ContextWithNewCorrelationID(g.ctx)
	ctx = logging.ContextWithTrigger(ctx, req.Source)

	snap := g.builder.Build(id, g.settings.Sync(), req.Captured)
	g.log.Dispatched(ctx, snap.Omitted)

	started := g.now()
	go func() {
		err := g.transport.Send(ctx, snap)
		g.poster.Post(func() {
			g.complete(ctx, req, started, err)
		})
	}()
	return true
}

// complete runs on the dispatch loop once the send returns.
func (g *SyncGuard) complete(ctx context.Context, req Request, started time.Time, err error) {
	finished := g.now()
	elapsed := finished.Sub(started)

	g.inFlight = false
	g.limiter.RecordSync(finished)
	g.last = &Result{At: finished, Source: req.Source, Kind: req.Kind, Success: err == nil, Err: err}
	metrics.RecordSyncResult(req.Source, elapsed, err)

	if err != nil {
		g.log.Failed(ctx, elapsed, err)
		if req.Kind == Manual {
			g.notify(MessageFailure)
		}
		return
	}

	g.log.Succeeded(ctx, elapsed)
	if req.Kind == Manual || g.settings.Sync().ShowNotification {
		g.notify(MessageSuccess)
	}
}

func (g *SyncGuard) notify(text string) {
	if g.notifier != nil {
		g.notifier.Notify(text)
	}
}

// InFlight reports whether a send is outstanding.
func (g *SyncGuard) InFlight() bool { return g.inFlight }

// LastResult returns the last completed attempt, or nil.
func (g *SyncGuard) LastResult() *Result {
	if g.last == nil {
		return nil
	}
	r := *g.last
	return &r
}

// Sends returns how many sends have been dispatched.
func (g *SyncGuard) Sends() int { return g.sends }
