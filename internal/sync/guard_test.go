// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

type guardFixture struct {
	guard     *SyncGuard
	reader    *fakeReader
	transport *fakeTransport
	poster    *fakePoster
	limiter   *RateLimiter
	host      *fakeHost
	settings  *fakeSettings
	clock     *testClock
}

func newGuardFixture() *guardFixture {
	f := &guardFixture{
		reader:    newFakeReader(),
		transport: &fakeTransport{},
		poster:    newFakePoster(),
		host:      &fakeHost{},
		settings:  allEnabled(),
		clock:     newTestClock(),
	}
	f.limiter = NewRateLimiter(func() time.Duration { return f.settings.Sync().AmbientInterval() })
	f.guard = NewSyncGuard(GuardDeps{
		Reader:    f.reader,
		Builder:   NewSnapshotBuilder(f.reader, nil, nil),
		Transport: f.transport,
		Limiter:   f.limiter,
		Poster:    f.poster,
		Notifier:  f.host,
		Settings:  f.settings,
		Now:       f.clock.Now,
	})
	return f
}

func TestGuard_SingleFlight(t *testing.T) {
	f := newGuardFixture()
	release := make(chan struct{})
	f.transport.sendFn = func(context.Context, *models.Snapshot) error {
		<-release
		return nil
	}
	before := testutil.ToFloat64(metrics.SyncRequests.WithLabelValues(SourceChat, metrics.OutcomeInFlight))

	if !f.guard.RequestSync(Request{Kind: Ambient, Source: SourceTick}) {
		t.Fatal("first RequestSync() = false")
	}
	if !f.guard.InFlight() {
		t.Fatal("InFlight() = false after dispatch")
	}
	for i := 0; i < 3; i++ {
		if f.guard.RequestSync(Request{Kind: Ambient, Source: SourceChat}) {
			t.Fatalf("RequestSync() #%d accepted while in flight", i+2)
		}
	}
	if f.guard.Sends() != 1 {
		t.Errorf("Sends() = %d, want 1", f.guard.Sends())
	}
	after := testutil.ToFloat64(metrics.SyncRequests.WithLabelValues(SourceChat, metrics.OutcomeInFlight))
	if after-before != 3 {
		t.Errorf("in_flight metric delta = %v, want 3", after-before)
	}

	close(release)
	f.poster.AwaitAndRun(t)

	if f.guard.InFlight() {
		t.Fatal("InFlight() = true after completion")
	}
	if !f.guard.RequestSync(Request{Kind: Ambient, Source: SourceTick}) {
		t.Error("RequestSync() rejected after completion")
	}
	f.poster.AwaitAndRun(t)
	if got := len(f.transport.Sent()); got != 2 {
		t.Errorf("transport saw %d sends, want 2", got)
	}
}

func TestGuard_NoIdentity(t *testing.T) {
	f := newGuardFixture()
	f.reader.identity = nil

	if f.guard.RequestSync(Request{Kind: Manual, Source: SourceButton}) {
		t.Fatal("RequestSync() = true without identity")
	}
	if f.guard.InFlight() || f.guard.Sends() != 0 {
		t.Error("guard state changed without identity")
	}
	if f.poster.RunPending() != 0 || len(f.transport.Sent()) != 0 {
		t.Error("something was sent without identity")
	}
}

func TestGuard_CompletionRecordsSyncTime(t *testing.T) {
	for _, fail := range []bool{false, true} {
		f := newGuardFixture()
		if fail {
			f.transport.sendFn = func(context.Context, *models.Snapshot) error { return errors.New("connection refused") }
		}

		f.guard.RequestSync(Request{Kind: Ambient, Source: SourceTick})
		if !f.limiter.LastSyncAt().IsZero() {
			t.Fatal("limiter updated before completion")
		}
		f.clock.Advance(3 * time.Second)
		f.poster.AwaitAndRun(t)

		if !f.limiter.LastSyncAt().Equal(f.clock.Now()) {
			t.Errorf("fail=%v: LastSyncAt() = %v, want completion time %v", fail, f.limiter.LastSyncAt(), f.clock.Now())
		}
		res := f.guard.LastResult()
		if res == nil || res.Success == fail || res.Source != SourceTick {
			t.Errorf("fail=%v: LastResult() = %+v", fail, res)
		}
	}
}

func TestGuard_Notifications(t *testing.T) {
	tests := []struct {
		name     string
		kind     TriggerKind
		fail     bool
		showNote bool
		want     []string
	}{
		{"ambient success quiet", Ambient, false, false, nil},
		{"ambient success with notification", Ambient, false, true, []string{MessageSuccess}},
		{"ambient failure quiet", Ambient, true, true, nil},
		{"manual success", Manual, false, false, []string{MessageSuccess}},
		{"manual failure", Manual, true, false, []string{MessageFailure}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGuardFixture()
			f.settings.cfg.ShowNotification = tt.showNote
			if tt.fail {
				f.transport.sendFn = func(context.Context, *models.Snapshot) error { return ErrTransportRejected }
			}

			f.guard.RequestSync(Request{Kind: tt.kind, Source: SourceAPI})
			f.poster.AwaitAndRun(t)

			if len(f.host.notified) != len(tt.want) {
				t.Fatalf("notified = %v, want %v", f.host.notified, tt.want)
			}
			for i := range tt.want {
				if f.host.notified[i] != tt.want[i] {
					t.Errorf("notified[%d] = %q, want %q", i, f.host.notified[i], tt.want[i])
				}
			}
		})
	}
}

func TestGuard_SendCarriesCorrelationID(t *testing.T) {
	f := newGuardFixture()
	ids := make(chan string, 1)
	f.transport.sendFn = func(ctx context.Context, _ *models.Snapshot) error {
		ids <- logging.CorrelationIDFromContext(ctx)
		return nil
	}

	f.guard.RequestSync(Request{Kind: Ambient, Source: SourceLogin})
	f.poster.AwaitAndRun(t)

	if id := <-ids; len(id) != 8 {
		t.Errorf("correlation id = %q, want 8 characters", id)
	}
}

func TestGuard_CapturedLogReachesSnapshot(t *testing.T) {
	f := newGuardFixture()
	captured := map[int]models.CollectionLogEntry{995: {Obtained: true, Count: 200000}}

	f.guard.RequestSync(Request{Kind: Manual, Source: SourceFullCapture, Captured: captured})
	f.poster.AwaitAndRun(t)

	sent := f.transport.Sent()
	if len(sent) != 1 || sent[0].CollectionLog[995].Count != 200000 {
		t.Fatalf("sent = %+v, want the captured collection log", sent)
	}
}

func TestTriggerKind_String(t *testing.T) {
	if Ambient.String() != "ambient" || Manual.String() != "manual" {
		t.Errorf("String() = %q, %q", Ambient.String(), Manual.String())
	}
}
