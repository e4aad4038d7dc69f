// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package metrics registers the Prometheus metrics exported by the sync agent.

All collectors are package-level promauto variables on the default registry and
are served by the local API at GET /metrics.

# Available Metrics

Sync:
  - runestatus_sync_requests_total{trigger,outcome}: every trigger that reached the
    guard. outcome is one of dispatched, in_flight, rate_limited, no_identity, disabled.
  - runestatus_sync_results_total{trigger,result}: completed sends (success, failure).
  - runestatus_sync_in_flight: 1 while a send is outstanding.
  - runestatus_sync_duration_seconds: send latency.
  - runestatus_sync_last_success_timestamp: unix seconds of the last successful send.
  - runestatus_snapshot_omitted_fields_total{category}: categories left out because
    the host had no data.

Collection log capture:
  - runestatus_capture_sessions_total{outcome}: completed, timed_out, cancelled.
  - runestatus_capture_items: items recorded by the last completed capture.

Host bridge:
  - runestatus_bridge_frames_total{kind}
  - runestatus_bridge_connected

Dispatch loop:
  - runestatus_dispatch_queue_depth
  - runestatus_handler_panics_total

Circuit breaker (transport):
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Local API:
  - runestatus_api_requests_total{method,endpoint,status_code}
  - runestatus_api_request_duration_seconds{method,endpoint}
*/
package metrics
