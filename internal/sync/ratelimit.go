// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"time"
)

// ManualSyncSpacing is the minimum time between a recorded sync and a manual
// one, regardless of the configured ambient interval.
const ManualSyncSpacing = 30 * time.Second

// RateLimiter remembers when the last sync attempt completed. It is owned by
// the dispatch loop and does not lock.
type RateLimiter struct {
	ambientInterval func() time.Duration
	lastSyncAt      time.Time
}

// NewRateLimiter creates a RateLimiter. ambientInterval is consulted on every
// check so configuration reloads take effect immediately.
func NewRateLimiter(ambientInterval func() time.Duration) *RateLimiter {
	return &RateLimiter{ambientInterval: ambientInterval}
}

// CanAmbientSync reports whether more than the ambient interval has passed
// since the last recorded sync.
func (r *RateLimiter) CanAmbientSync(now time.Time) bool {
	if r.lastSyncAt.IsZero() {
		return true
	}
	return now.Sub(r.lastSyncAt) > r.ambientInterval()
}

// CanManualSync reports whether more than ManualSyncSpacing has passed since
// the last recorded sync.
func (r *RateLimiter) CanManualSync(now time.Time) bool {
	if r.lastSyncAt.IsZero() {
		return true
	}
	return now.Sub(r.lastSyncAt) > ManualSyncSpacing
}

// RecordSync stores the completion time of a sync attempt, successful or not.
func (r *RateLimiter) RecordSync(now time.Time) {
	r.lastSyncAt = now
}

// LastSyncAt returns the last recorded sync, or the zero time.
func (r *RateLimiter) LastSyncAt() time.Time {
	return r.lastSyncAt
}
