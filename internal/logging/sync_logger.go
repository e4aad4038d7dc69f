// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package logging

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultSampleInterval is how often a sampled diagnostic may be written.
const DefaultSampleInterval = 30 * time.Second

// Sampler lets one call through per interval and counts the calls it dropped
// in between. The zero value is not usable; use NewSampler.
type Sampler struct {
	sometimes rate.Sometimes
	dropped   atomic.Int64
}

// NewSampler creates a Sampler. A non-positive interval uses DefaultSampleInterval.
func NewSampler(interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{sometimes: rate.Sometimes{Interval: interval}}
}

// Do runs fn if the interval has elapsed since it last ran, passing the number
// of calls dropped since then.
func (s *Sampler) Do(fn func(dropped int64)) {
	ran := false
	s.sometimes.Do(func() {
		ran = true
		fn(s.dropped.Swap(0))
	})
	if !ran {
		s.dropped.Add(1)
	}
}

// SyncLogger writes the attempt-level lines of the sync orchestrator.
type SyncLogger struct {
	logger     zerolog.Logger
	suppressed *Sampler
}

// NewSyncLogger creates a SyncLogger tagged component=sync.
func NewSyncLogger() *SyncLogger {
	return &SyncLogger{
		logger:     WithComponent("sync"),
		suppressed: NewSampler(DefaultSampleInterval),
	}
}

// NewSyncLoggerWith creates a SyncLogger over logger with the given sample
// interval for suppressed-trigger lines.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSyncLoggerWith(logger zerolog.Logger, sampleInterval time.Duration) *SyncLogger {
	return &SyncLogger{
		logger:     logger.With().Str("component", "sync").Logger(),
		suppressed: NewSampler(sampleInterval),
	}
}

func (l *SyncLogger) ctx(ctx context.Context) *zerolog.Logger {
	logCtx := l.logger.With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if trigger := TriggerFromContext(ctx); trigger != "" {
		logCtx = logCtx.Str("trigger", trigger)
	}
	out := logCtx.Logger()
	return &out
}

// Dispatched logs a snapshot handed to the transport.
func (l *SyncLogger) Dispatched(ctx context.Context, omitted []string) {
	ev := l.ctx(ctx).Debug()
	if len(omitted) > 0 {
		ev = ev.Strs("omitted", omitted)
	}
	ev.Msg("Sync dispatched")
}

// Succeeded logs a completed sync.
func (l *SyncLogger) Succeeded(ctx context.Context, elapsed time.Duration) {
	l.ctx(ctx).Info().Dur("elapsed", elapsed).Msg("Sync succeeded")
}

// Failed logs a failed sync.
func (l *SyncLogger) Failed(ctx context.Context, elapsed time.Duration, err error) {
	l.ctx(ctx).Warn().Err(err).Dur("elapsed", elapsed).Msg("Sync failed")
}

// Suppressed logs, sampled, a trigger that did not produce a sync.
func (l *SyncLogger) Suppressed(trigger, reason string) {
	l.suppressed.Do(func(dropped int64) {
		l.logger.Info().
			Str("trigger", trigger).
			Str("reason", reason).
			Int64("dropped_since_last", dropped).
			Msg("Sync suppressed")
	})
}
