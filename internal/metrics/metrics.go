// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync request outcomes.
const (
	OutcomeDispatched  = "dispatched"
	OutcomeInFlight    = "in_flight"
	OutcomeRateLimited = "rate_limited"
	OutcomeNoIdentity  = "no_identity"
	OutcomeDisabled    = "disabled"
)

// Capture session outcomes.
const (
	CaptureCompleted = "completed"
	CaptureTimedOut  = "timed_out"
	CaptureCancelled = "cancelled"
)

var (
	// Sync Metrics
	SyncRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runestatus_sync_requests_total",
			Help: "Sync triggers that reached the guard, by outcome",
		},
		[]string{"trigger", "outcome"},
	)

	SyncResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runestatus_sync_results_total",
			Help: "Completed snapshot sends by result",
		},
		[]string{"trigger", "result"}, // result: "success", "failure"
	)

	SyncInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runestatus_sync_in_flight",
			Help: "1 while a snapshot send is outstanding",
		},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runestatus_sync_duration_seconds",
			Help:    "Snapshot send latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runestatus_sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful sync",
		},
	)

	SnapshotOmittedFields = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runestatus_snapshot_omitted_fields_total",
			Help: "Snapshot categories omitted because the host had no data",
		},
		[]string{"category"},
	)

	// Collection Log Capture Metrics
	CaptureSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runestatus_capture_sessions_total",
			Help: "Collection log capture sessions by outcome",
		},
		[]string{"outcome"},
	)

	CaptureItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runestatus_capture_items",
			Help: "Items recorded by the most recently completed capture",
		},
	)

	// Host Bridge Metrics
	BridgeFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runestatus_bridge_frames_total",
			Help: "Frames received from the host bridge by kind",
		},
		[]string{"kind"},
	)

	BridgeConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runestatus_bridge_connected",
			Help: "1 while the host bridge websocket is connected",
		},
	)

	// Dispatch Loop Metrics
	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runestatus_dispatch_queue_depth",
			Help: "Closures waiting on the dispatch loop",
		},
	)

	HandlerPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runestatus_handler_panics_total",
			Help: "Panics recovered in event handlers and loop closures",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Local API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runestatus_api_requests_total",
			Help: "Total number of local API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runestatus_api_request_duration_seconds",
			Help:    "Local API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordSyncRequest counts a trigger that reached the guard.
func RecordSyncRequest(trigger, outcome string) {
	SyncRequests.WithLabelValues(trigger, outcome).Inc()
}

// RecordSyncResult records a finished send and updates the in-flight gauge.
func RecordSyncResult(trigger string, duration time.Duration, err error) {
	SyncDuration.Observe(duration.Seconds())
	SyncInFlight.Set(0)
	if err != nil {
		SyncResults.WithLabelValues(trigger, "failure").Inc()
		return
	}
	SyncResults.WithLabelValues(trigger, "success").Inc()
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordOmitted counts each omitted snapshot category.
func RecordOmitted(categories []string) {
	for _, c := range categories {
		SnapshotOmittedFields.WithLabelValues(c).Inc()
	}
}

// RecordCapture records the end of a capture session. items is ignored unless
// the session completed.
func RecordCapture(outcome string, items int) {
	CaptureSessions.WithLabelValues(outcome).Inc()
	if outcome == CaptureCompleted {
		CaptureItems.Set(float64(items))
	}
}

// RecordBridgeFrame counts a frame received from the host bridge.
func RecordBridgeFrame(kind string) {
	BridgeFrames.WithLabelValues(kind).Inc()
}

// SetBridgeConnected flips the bridge connection gauge.
func SetBridgeConnected(connected bool) {
	if connected {
		BridgeConnected.Set(1)
	} else {
		BridgeConnected.Set(0)
	}
}

// RecordAPIRequest records a local API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
