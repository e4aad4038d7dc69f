// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. The manual sync limit comes from cfg.
func NewRouter(handler *Handler, cfg config.APIConfig) *Router {
	mw := DefaultChiMiddlewareConfig()
	if cfg.ManualRatePerMinute > 0 {
		mw.RateLimitRequests = cfg.ManualRatePerMinute
		mw.RateLimitWindow = time.Minute
	}
	return &Router{handler: handler, chiMiddleware: NewChiMiddleware(mw)}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Get("/healthz", router.handler.Health)
	r.Get("/status", router.handler.Status)
	r.With(router.chiMiddleware.RateLimit()).Post("/sync", router.handler.TriggerSync)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
