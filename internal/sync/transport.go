// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// ErrTransportRejected is returned when the service answers with a non-2xx status.
var ErrTransportRejected = errors.New("snapshot rejected by server")

// Transport delivers one snapshot. A nil error means the service accepted it.
type Transport interface {
	Send(ctx context.Context, snap *models.Snapshot) error
}

// maxErrorBodySize limits how much of an error response is kept for logs.
const maxErrorBodySize = 4 * 1024

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return string(body)
}

// HTTPTransport POSTs snapshots as JSON.
type HTTPTransport struct {
	endpoint   string
	userAgent  string
	authHeader string
	authToken  string
	client     *http.Client
}

// NewHTTPTransport creates a transport from cfg.
//
//nolint:gocritic // config value copied once at startup
func NewHTTPTransport(cfg config.TransportConfig) *HTTPTransport {
	return &HTTPTransport{
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
		authHeader: cfg.AuthHeader,
		authToken:  cfg.AuthToken,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Send encodes snap and POSTs it to the endpoint.
func (t *HTTPTransport) Send(ctx context.Context, snap *models.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if t.authHeader != "" && t.authToken != "" {
		req.Header.Set(t.authHeader, t.authToken)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrTransportRejected, resp.StatusCode, readBodyForError(resp.Body))
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // best effort
	return nil
}
