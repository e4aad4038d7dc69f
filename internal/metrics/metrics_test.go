// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount extracts the sample count from a Prometheus histogram.
func histogramCount(t *testing.T, h prometheus.Metric) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestSyncDurationObserved(t *testing.T) {
	before := histogramCount(t, SyncDuration)
	RecordSyncResult("login", 250*time.Millisecond, nil)
	if got := histogramCount(t, SyncDuration) - before; got != 1 {
		t.Errorf("sync duration samples delta = %d, want 1", got)
	}
}

func TestRecordSyncRequest(t *testing.T) {
	before := testutil.ToFloat64(SyncRequests.WithLabelValues("chat", OutcomeRateLimited))
	RecordSyncRequest("chat", OutcomeRateLimited)
	RecordSyncRequest("chat", OutcomeRateLimited)
	after := testutil.ToFloat64(SyncRequests.WithLabelValues("chat", OutcomeRateLimited))
	if after-before != 2 {
		t.Errorf("rate_limited delta = %v, want 2", after-before)
	}
}

func TestRecordSyncResult(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{name: "success", err: nil, result: "success"},
		{name: "failure", err: errors.New("status 500"), result: "failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SyncInFlight.Set(1)
			before := testutil.ToFloat64(SyncResults.WithLabelValues("manual", tt.result))

			RecordSyncResult("manual", 120*time.Millisecond, tt.err)

			if got := testutil.ToFloat64(SyncResults.WithLabelValues("manual", tt.result)) - before; got != 1 {
				t.Errorf("%s delta = %v, want 1", tt.result, got)
			}
			if got := testutil.ToFloat64(SyncInFlight); got != 0 {
				t.Errorf("in-flight = %v, want 0", got)
			}
		})
	}

	if testutil.ToFloat64(SyncLastSuccess) == 0 {
		t.Error("last success timestamp not set")
	}
}

func TestRecordCapture(t *testing.T) {
	RecordCapture(CaptureCompleted, 42)
	if got := testutil.ToFloat64(CaptureItems); got != 42 {
		t.Errorf("capture items = %v, want 42", got)
	}

	RecordCapture(CaptureCancelled, 7)
	if got := testutil.ToFloat64(CaptureItems); got != 42 {
		t.Errorf("aborted capture changed items gauge to %v", got)
	}
}

func TestRecordOmitted(t *testing.T) {
	before := testutil.ToFloat64(SnapshotOmittedFields.WithLabelValues("quests"))
	RecordOmitted([]string{"quests", "equipment"})
	if got := testutil.ToFloat64(SnapshotOmittedFields.WithLabelValues("quests")) - before; got != 1 {
		t.Errorf("quests delta = %v, want 1", got)
	}
}

func TestSetBridgeConnected(t *testing.T) {
	SetBridgeConnected(true)
	if got := testutil.ToFloat64(BridgeConnected); got != 1 {
		t.Errorf("connected = %v", got)
	}
	SetBridgeConnected(false)
	if got := testutil.ToFloat64(BridgeConnected); got != 0 {
		t.Errorf("connected = %v", got)
	}
}

// TestMetricGathering gathers and lints everything on the default registry.
func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/status", "200", time.Millisecond)
	RecordBridgeFrame("tick")

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, p := range problems {
		t.Logf("lint %s: %s", p.Metric, p.Text)
	}
}
