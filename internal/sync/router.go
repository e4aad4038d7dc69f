// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/runestatus-sync/internal/dispatch"
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// TriggerRouter turns host events into sync requests. Ambient triggers pass
// the enable switch and the ambient rate gate before reaching the guard;
// manual triggers pass the manual gate only. All handlers run on the
// dispatch loop.
type TriggerRouter struct {
	guard    *SyncGuard
	limiter  *RateLimiter
	tracker  *CollectionLogTracker
	drops    *RecentDrops
	stats    host.StatSource
	clock    host.ClockSource
	notifier host.Notifier
	poster   dispatch.Poster
	settings Settings
	now      func() time.Time

	loggedIn bool

	log        zerolog.Logger
	suppressed *logging.SyncLogger
}

// RouterDeps are the collaborators of a TriggerRouter.
type RouterDeps struct {
	Guard    *SyncGuard
	Limiter  *RateLimiter
	Tracker  *CollectionLogTracker
	Drops    *RecentDrops
	Stats    host.StatSource
	Clock    host.ClockSource
	Notifier host.Notifier
	Poster   dispatch.Poster
	Settings Settings
	Now      func() time.Time
}

// NewTriggerRouter creates a router. Call Subscribe to attach it to a bus.
func NewTriggerRouter(deps RouterDeps) *TriggerRouter {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TriggerRouter{
		guard:      deps.Guard,
		limiter:    deps.Limiter,
		tracker:    deps.Tracker,
		drops:      deps.Drops,
		stats:      deps.Stats,
		clock:      deps.Clock,
		notifier:   deps.Notifier,
		poster:     deps.Poster,
		settings:   deps.Settings,
		now:        now,
		log:        logging.WithComponent("router"),
		suppressed: logging.NewSyncLogger(),
	}
}

// Subscribe registers every handler on bus. Unsubscribing the result detaches
// the router.
func (r *TriggerRouter) Subscribe(bus *host.Bus) host.Subscriptions {
	var subs host.Subscriptions
	subs.Add(host.Subscribe(bus, safeHandle("game_state", r.OnGameStateChanged)))
	subs.Add(host.Subscribe(bus, safeHandle("stat_changed", r.OnStatChanged)))
	subs.Add(host.Subscribe(bus, safeHandle("chat", r.OnChatMessage)))
	subs.Add(host.Subscribe(bus, safeHandle("widget_loaded", r.OnWidgetLoaded)))
	subs.Add(host.Subscribe(bus, safeHandle("widget_closed", r.OnWidgetClosed)))
	subs.Add(host.Subscribe(bus, safeHandle("script_pre_fired", r.OnScriptPreFired)))
	subs.Add(host.Subscribe(bus, safeHandle("tick", r.OnGameTick)))
	return subs
}

// safeHandle keeps a panicking handler from unwinding into the publisher.
func safeHandle[E host.Event](name string, fn func(E)) func(E) {
	return func(e E) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.HandlerPanics.Inc()
				logging.Error().Str("handler", name).Interface("panic", rec).Msg("Recovered panic in event handler")
			}
		}()
		fn(e)
	}
}

// OnGameStateChanged tracks the host session. The first LOGGED_IN of a
// session syncs on the next loop turn so host data can settle. Any state
// other than LOGGED_IN or HOPPING abandons a running capture, and the login
// screen ends the session.
func (r *TriggerRouter) OnGameStateChanged(e host.GameStateChanged) {
	switch e.State {
	case host.GameStateLoggedIn:
		if r.loggedIn {
			return
		}
		r.loggedIn = true
		r.log.Info().Msg("Session started")
		r.poster.Post(func() {
			if r.loggedIn {
				r.requestAmbient(SourceLogin)
			}
		})
		return
	case host.GameStateHopping:
		return
	}

	r.tracker.CancelCapture()
	if e.State == host.GameStateLoginScreen && r.loggedIn {
		r.endSession()
	}
}

func (r *TriggerRouter) endSession() {
	r.loggedIn = false
	r.tracker.OnSessionEnd()
	r.drops.Reset()
	r.log.Info().Msg("Session ended")
}

// OnStatChanged syncs when the changed skill sits at its real level, which is
// what a level up looks like from a single event.
func (r *TriggerRouter) OnStatChanged(e host.StatChanged) {
	if !r.loggedIn {
		return
	}
	stat, ok := r.stats.Skill(e.Skill)
	if !ok || stat.RealLevel != e.Level {
		return
	}
	r.log.Debug().Str("skill", e.Skill).Int("level", e.Level).Msg("Level change detected")
	r.requestAmbient(SourceLevelUp)
}

// OnChatMessage watches for drop and pet announcements.
func (r *TriggerRouter) OnChatMessage(e host.ChatMessage) {
	if !r.loggedIn {
		return
	}
	m, ok := MatchChat(e.Type, e.Text)
	if !ok {
		return
	}
	if m.Item != "" {
		r.drops.Add(m.Item)
	}
	r.log.Debug().Str("family", string(m.Family)).Str("item", m.Item).Msg("Drop announcement seen")
	r.requestAmbient(SourceChat)
}

// OnWidgetLoaded follows the collection log opening.
func (r *TriggerRouter) OnWidgetLoaded(e host.WidgetLoaded) {
	if !r.loggedIn {
		return
	}
	r.tracker.OnWidgetLoaded(e.GroupID)
}

// OnWidgetClosed syncs when the collection log closes with captured data.
func (r *TriggerRouter) OnWidgetClosed(e host.WidgetClosed) {
	if !r.tracker.OnWidgetClosed(e.GroupID) {
		return
	}
	if r.tracker.HasData() {
		r.requestAmbient(SourceClogClose)
	}
}

// OnScriptPreFired feeds collection log rows into the tracker.
func (r *TriggerRouter) OnScriptPreFired(e host.ScriptPreFired) {
	if !r.loggedIn || !r.settings.Sync().CollectionLog {
		return
	}
	r.tracker.OnScriptPreFired(e.ScriptID, e.Args, r.clock.TickCount())
}

// OnGameTick advances the capture and checks the ambient interval.
func (r *TriggerRouter) OnGameTick(e host.GameTick) {
	r.tracker.OnClockTick(e.Tick)
	if !r.loggedIn || !r.dueByInterval() {
		return
	}
	r.requestAmbient(SourceTick)
}

// WallclockCheck is the tick check for when the host clock is paused. It must
// run on the dispatch loop.
func (r *TriggerRouter) WallclockCheck() {
	if !r.loggedIn || !r.dueByInterval() {
		return
	}
	r.requestAmbient(SourceWallclock)
}

// dueByInterval keeps interval checks quiet: they fire at tick rate and
// would otherwise count as suppressed on every tick. The limiter only moves
// when a send completes, so a send in flight must be checked here too.
func (r *TriggerRouter) dueByInterval() bool {
	return r.settings.Sync().Enabled && !r.guard.InFlight() && r.limiter.CanAmbientSync(r.now())
}

// TriggerManual handles a direct user action. With the collection log open
// and enabled it runs a full capture first and syncs on completion;
// otherwise it syncs immediately. It reports whether the request was
// accepted.
func (r *TriggerRouter) TriggerManual(source string) bool {
	r.notify(MessageSyncing)

	if !r.limiter.CanManualSync(r.now()) {
		metrics.RecordSyncRequest(source, metrics.OutcomeRateLimited)
		r.log.Info().Str("trigger", source).Msg("Manual sync requested too soon after the last sync")
		return false
	}

	if r.settings.Sync().CollectionLog && r.tracker.Open() {
		started := r.tracker.StartFullCapture(r.clock.TickCount(), func(entries map[int]models.CollectionLogEntry) {
			r.guard.RequestSync(Request{Kind: Manual, Source: SourceFullCapture, Captured: entries})
		})
		if started {
			r.log.Info().Str("trigger", source).Msg("Capturing collection log before sync")
			return true
		}
	}

	return r.guard.RequestSync(Request{Kind: Manual, Source: source})
}

// requestAmbient applies the enable switch and the ambient gate.
func (r *TriggerRouter) requestAmbient(source string) bool {
	if !r.settings.Sync().Enabled {
		metrics.RecordSyncRequest(source, metrics.OutcomeDisabled)
		return false
	}
	if !r.limiter.CanAmbientSync(r.now()) {
		metrics.RecordSyncRequest(source, metrics.OutcomeRateLimited)
		r.suppressed.Suppressed(source, metrics.OutcomeRateLimited)
		return false
	}
	return r.guard.RequestSync(Request{Kind: Ambient, Source: source})
}

func (r *TriggerRouter) notify(text string) {
	if r.notifier != nil {
		r.notifier.Notify(text)
	}
}

// LoggedIn reports whether a host session is active.
func (r *TriggerRouter) LoggedIn() bool { return r.loggedIn }
