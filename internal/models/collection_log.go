// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package models

// CollectionLogEntry is the state of one collection log item, keyed by the
// item's numeric id in every map that holds it.
//
// Invariant: Obtained == false implies Count == 0. Build entries with
// NewCollectionLogEntry to keep it.
type CollectionLogEntry struct {
	Obtained bool `json:"obtained"`
	Count    int  `json:"count"`
}

// NewCollectionLogEntry converts a raw quantity reported by the host into an
// entry. Any quantity <= 0 is "not obtained".
func NewCollectionLogEntry(quantity int) CollectionLogEntry {
	if quantity <= 0 {
		return CollectionLogEntry{}
	}
	return CollectionLogEntry{Obtained: true, Count: quantity}
}

// CollectionLogCounts is the "Unique: X/Y" header of the collection log.
type CollectionLogCounts struct {
	Obtained int `json:"obtained"`
	Total    int `json:"total"`
}

// CloneCollectionLog returns an independent copy of m. A nil map stays nil.
func CloneCollectionLog(m map[int]CollectionLogEntry) map[int]CollectionLogEntry {
	if m == nil {
		return nil
	}
	out := make(map[int]CollectionLogEntry, len(m))
	for id, entry := range m {
		out[id] = entry
	}
	return out
}
