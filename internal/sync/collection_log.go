// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// Host identifiers for the collection log interface.
const (
	CollectionLogGroupID = 621

	// ItemRowScriptID fires once per displayed row with args [_, itemID, quantity].
	ItemRowScriptID = 4100

	// SearchScriptID makes the interface load every row at once.
	SearchScriptID = 2240
)

// CollectionLogTitle is the header widget showing "Unique: X/Y".
var CollectionLogTitle = host.NewComponentID(CollectionLogGroupID, 1)

var uniqueCountPattern = regexp.MustCompile(`Unique:\s*(\d+)\s*/\s*(\d+)`)

// parseUniqueCounts extracts obtained/total from the collection log header.
func parseUniqueCounts(text string) (models.CollectionLogCounts, bool) {
	m := uniqueCountPattern.FindStringSubmatch(text)
	if m == nil {
		return models.CollectionLogCounts{}, false
	}
	obtained, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return models.CollectionLogCounts{}, false
	}
	return models.CollectionLogCounts{Obtained: obtained, Total: total}, true
}

// CollectionLogTracker follows the collection log interface for one host
// session: whether it is open, which rows have been seen, and the header
// counts. It drives a CaptureStateMachine and keeps completed captures in a
// cache that outlives them until the session ends.
type CollectionLogTracker struct {
	capture *CaptureStateMachine
	widgets host.WidgetSource
	scripts host.ScriptRunner

	open   bool
	cache  map[int]models.CollectionLogEntry // nil until the first capture completes
	counts *models.CollectionLogCounts

	log zerolog.Logger
}

// NewCollectionLogTracker creates a tracker. scripts may be nil, in which case
// full captures cannot be requested.
func NewCollectionLogTracker(capture *CaptureStateMachine, widgets host.WidgetSource, scripts host.ScriptRunner) *CollectionLogTracker {
	return &CollectionLogTracker{
		capture: capture,
		widgets: widgets,
		scripts: scripts,
		log:     logging.WithComponent("collection_log"),
	}
}

// OnWidgetLoaded marks the interface open.
func (t *CollectionLogTracker) OnWidgetLoaded(groupID int) {
	if groupID == CollectionLogGroupID {
		t.open = true
		t.log.Debug().Msg("Collection log opened")
	}
}

// OnWidgetClosed marks the interface closed. It reports whether the close
// was for the collection log while it was open.
func (t *CollectionLogTracker) OnWidgetClosed(groupID int) bool {
	if groupID != CollectionLogGroupID || !t.open {
		return false
	}
	t.open = false
	t.log.Debug().Msg("Collection log closed")
	return true
}

// OnScriptPreFired feeds an item row into the running capture. A row that
// arrives while the interface is open and no capture is running starts a
// passive capture: the player is paging through the log by hand.
func (t *CollectionLogTracker) OnScriptPreFired(scriptID int, args []int, tick int) {
	if scriptID != ItemRowScriptID || len(args) < 3 {
		return
	}
	if !t.capture.Active() {
		if !t.open {
			return
		}
		t.capture.Start(tick, func(entries map[int]models.CollectionLogEntry) {
			t.complete(entries)
		})
	}
	t.capture.OnItemUpdate(args[1], args[2], tick)
}

// OnClockTick advances the capture.
func (t *CollectionLogTracker) OnClockTick(tick int) {
	t.capture.OnClockTick(tick)
}

// StartFullCapture starts a capture and asks the host to load every row.
// then runs after the capture completes and the cache is updated, with the
// rows of this capture. It returns false if the interface is closed, a
// capture is already running, or scripts cannot be queued.
func (t *CollectionLogTracker) StartFullCapture(tick int, then CaptureComplete) bool {
	if !t.open || t.scripts == nil {
		return false
	}
	started := t.capture.Start(tick, func(entries map[int]models.CollectionLogEntry) {
		t.complete(entries)
		if then != nil {
			then(models.CloneCollectionLog(entries))
		}
	})
	if !started {
		return false
	}
	t.scripts.QueueScript(SearchScriptID)
	t.log.Debug().Int("tick", tick).Msg("Requested full collection log load")
	return true
}

// complete merges a finished capture into the cache and refreshes the counts.
func (t *CollectionLogTracker) complete(entries map[int]models.CollectionLogEntry) {
	if t.cache == nil {
		t.cache = make(map[int]models.CollectionLogEntry, len(entries))
	}
	for id, e := range entries {
		t.cache[id] = e
	}
	t.refreshCounts()
}

// refreshCounts reads the header widget. A missing or unparseable header
// keeps the previous counts.
func (t *CollectionLogTracker) refreshCounts() {
	text, ok := t.widgets.WidgetText(CollectionLogTitle)
	if !ok || text == "" {
		t.log.Debug().Msg("Collection log title not available")
		return
	}
	counts, ok := parseUniqueCounts(text)
	if !ok {
		t.log.Warn().Str("text", text).Msg("Could not parse collection log counts")
		return
	}
	t.counts = &counts
	t.log.Info().Int("obtained", counts.Obtained).Int("total", counts.Total).Msg("Captured collection log counts")
}

// CancelCapture abandons a running capture without touching the cache. The
// host is no longer showing the interface, so it is treated as closed.
func (t *CollectionLogTracker) CancelCapture() {
	t.capture.OnSessionEnd()
	t.open = false
}

// OnSessionEnd cancels any capture and forgets everything seen this session.
func (t *CollectionLogTracker) OnSessionEnd() {
	t.capture.OnSessionEnd()
	t.open = false
	t.cache = nil
	t.counts = nil
}

// Open reports whether the interface is open.
func (t *CollectionLogTracker) Open() bool { return t.open }

// HasData reports whether any capture completed this session.
func (t *CollectionLogTracker) HasData() bool { return len(t.cache) > 0 }

// Cached returns a copy of the cache, or nil if no capture completed.
func (t *CollectionLogTracker) Cached() map[int]models.CollectionLogEntry {
	return models.CloneCollectionLog(t.cache)
}

// Counts returns the last parsed header counts, or nil.
func (t *CollectionLogTracker) Counts() *models.CollectionLogCounts {
	if t.counts == nil {
		return nil
	}
	c := *t.counts
	return &c
}

// CacheSize returns the number of cached items.
func (t *CollectionLogTracker) CacheSize() int { return len(t.cache) }

// Capturing reports whether a capture is running.
func (t *CollectionLogTracker) Capturing() bool { return t.capture.Active() }
