// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package dispatch

import (
	"context"
	"time"

	"github.com/tomtom215/runestatus-sync/internal/logging"
)

// Poster accepts closures for execution on the dispatch loop.
type Poster interface {
	Post(fn func())
}

// Scheduler posts fn onto a Poster every interval of wall-clock time.
type Scheduler struct {
	name     string
	interval time.Duration
	poster   Poster
	fn       func()
}

// NewScheduler creates a scheduler. A non-positive interval defaults to one
// minute.
func NewScheduler(name string, interval time.Duration, poster Poster, fn func()) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		name:     name,
		interval: interval,
		poster:   poster,
		fn:       fn,
	}
}

// Serve implements suture.Service. The callback itself never runs on the
// scheduler goroutine.
func (s *Scheduler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Debug().Str("service", s.name).Dur("interval", s.interval).Msg("Scheduler started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.poster.Post(s.fn)
		}
	}
}

// Interval returns the firing interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// String implements fmt.Stringer for suture.
func (s *Scheduler) String() string {
	return s.name
}
