// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

/*
Package middleware provides HTTP middleware for the local status API.

  - RequestID: UUID request IDs, echoed in X-Request-ID and stored as the
    logging correlation ID so handler logs can be traced per request.
  - PrometheusMetrics: request count and latency per route pattern.

Both are chi-compatible func(http.Handler) http.Handler.
*/
package middleware
