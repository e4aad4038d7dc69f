// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSamplerDropsWithinInterval(t *testing.T) {
	t.Parallel()

	s := NewSampler(time.Hour)
	var runs int
	var lastDropped int64 = -1
	for i := 0; i < 5; i++ {
		s.Do(func(dropped int64) {
			runs++
			lastDropped = dropped
		})
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if lastDropped != 0 {
		t.Errorf("first run dropped = %d, want 0", lastDropped)
	}
	if got := s.dropped.Load(); got != 4 {
		t.Errorf("dropped = %d, want 4", got)
	}
}

func TestSyncLoggerLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewSyncLoggerWith(NewTestLogger(&buf), time.Hour)
	ctx := ContextWithTrigger(ContextWithCorrelationID(context.Background(), "c0ffee00"), "wallclock")

	l.Failed(ctx, 150*time.Millisecond, errors.New("status 503"))
	out := buf.String()
	for _, want := range []string{`"component":"sync"`, `"correlation_id":"c0ffee00"`, `"trigger":"wallclock"`, `"status 503"`, "Sync failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}

	buf.Reset()
	l.Suppressed("tick", "in_flight")
	l.Suppressed("tick", "in_flight")
	if n := strings.Count(buf.String(), "Sync suppressed"); n != 1 {
		t.Errorf("suppressed lines = %d, want 1", n)
	}
}

func TestSlogHandlerWritesThroughZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))
	logger.WithGroup("svc").Warn("service restarted", "name", "hostbridge", "attempt", 3)

	line := decodeLine(t, &buf)
	if line["level"] != "warn" {
		t.Errorf("level = %v", line["level"])
	}
	if line["svc.name"] != "hostbridge" {
		t.Errorf("svc.name = %v", line["svc.name"])
	}
	if line["svc.attempt"] != float64(3) {
		t.Errorf("svc.attempt = %v", line["svc.attempt"])
	}
}

func TestSlogLevelMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
