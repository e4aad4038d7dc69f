// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"testing"
	"time"
)

func TestRateLimiter_FreshLimiterAllowsEverything(t *testing.T) {
	r := NewRateLimiter(func() time.Duration { return 5 * time.Minute })
	now := time.Now()

	if !r.CanAmbientSync(now) {
		t.Error("CanAmbientSync() = false before any sync")
	}
	if !r.CanManualSync(now) {
		t.Error("CanManualSync() = false before any sync")
	}
	if !r.LastSyncAt().IsZero() {
		t.Errorf("LastSyncAt() = %v, want zero", r.LastSyncAt())
	}
}

func TestRateLimiter_Gates(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantAmbient bool
		wantManual  bool
	}{
		{"immediately after", 0, false, false},
		{"at manual spacing", 30 * time.Second, false, false},
		{"just past manual spacing", 30*time.Second + time.Millisecond, false, true},
		{"at ambient interval", 5 * time.Minute, false, true},
		{"just past ambient interval", 5*time.Minute + time.Millisecond, true, true},
		{"clock stepped backwards", -time.Minute, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter(func() time.Duration { return 5 * time.Minute })
			r.RecordSync(base)
			now := base.Add(tt.elapsed)

			if got := r.CanAmbientSync(now); got != tt.wantAmbient {
				t.Errorf("CanAmbientSync() = %v, want %v", got, tt.wantAmbient)
			}
			if got := r.CanManualSync(now); got != tt.wantManual {
				t.Errorf("CanManualSync() = %v, want %v", got, tt.wantManual)
			}
		})
	}
}

func TestRateLimiter_ReadsIntervalOnEveryCheck(t *testing.T) {
	interval := 10 * time.Minute
	r := NewRateLimiter(func() time.Duration { return interval })
	base := time.Now()
	r.RecordSync(base)

	now := base.Add(2 * time.Minute)
	if r.CanAmbientSync(now) {
		t.Fatal("CanAmbientSync() = true with a 10m interval after 2m")
	}

	interval = time.Minute
	if !r.CanAmbientSync(now) {
		t.Error("CanAmbientSync() = false after the interval shrank to 1m")
	}
}
