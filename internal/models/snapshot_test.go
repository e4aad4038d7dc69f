// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func decodeWire(t *testing.T, s Snapshot) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	return out
}

func TestSnapshot_MarshalJSON_AbsentVersusEmpty(t *testing.T) {
	t.Parallel()

	s := Snapshot{
		Username:    "Zezima",
		AccountType: 0,
		World:       302,
		Quests:      map[string]string{},
		Equipment:   nil,
	}

	wire := decodeWire(t, s)

	quests, ok := wire["quests"]
	if !ok {
		t.Fatal("empty quests category must be present on the wire")
	}
	if m, ok := quests.(map[string]interface{}); !ok || len(m) != 0 {
		t.Errorf("quests = %#v, want empty object", quests)
	}

	for _, key := range []string{"skills", "achievementDiaries", "combatAchievements", "equipment", "collectionLog", "collectionLogCounts", "recentDrops"} {
		if _, ok := wire[key]; ok {
			t.Errorf("absent category %q must be omitted from the wire", key)
		}
	}
}

func TestSnapshot_MarshalJSON_Fields(t *testing.T) {
	t.Parallel()

	level := 126
	xp := int64(4600000000)
	s := Snapshot{
		Username:     "Zezima",
		World:        420,
		CombatLevel:  &level,
		TotalXP:      &xp,
		Skills:       map[string]SkillData{"Attack": {Level: 99, XP: 13034431}},
		CollectionLog: map[int]CollectionLogEntry{
			995: NewCollectionLogEntry(200000),
		},
		RecentDrops:  []string{},
		LastSyncedAt: 1700000000000,
		Omitted:      []string{"quests"},
	}

	wire := decodeWire(t, s)

	if wire["username"] != "Zezima" {
		t.Errorf("username = %v", wire["username"])
	}
	if wire["combatLevel"] != float64(126) {
		t.Errorf("combatLevel = %v", wire["combatLevel"])
	}
	if _, ok := wire["totalLevel"]; ok {
		t.Error("unread summary counter must be omitted")
	}
	if _, ok := wire["Omitted"]; ok {
		t.Error("diagnostic notes must never be sent")
	}

	clog, ok := wire["collectionLog"].(map[string]interface{})
	if !ok {
		t.Fatalf("collectionLog = %#v", wire["collectionLog"])
	}
	entry, ok := clog["995"].(map[string]interface{})
	if !ok {
		t.Fatalf("collectionLog[995] = %#v", clog["995"])
	}
	if entry["obtained"] != true || entry["count"] != float64(200000) {
		t.Errorf("entry = %#v", entry)
	}

	if drops, ok := wire["recentDrops"].([]interface{}); !ok || len(drops) != 0 {
		t.Errorf("recentDrops = %#v, want empty array", wire["recentDrops"])
	}
}

func TestNewCollectionLogEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		quantity int
		want     CollectionLogEntry
	}{
		{"obtained", 3, CollectionLogEntry{Obtained: true, Count: 3}},
		{"zero", 0, CollectionLogEntry{}},
		{"negative clamps to zero", -1, CollectionLogEntry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NewCollectionLogEntry(tt.quantity); got != tt.want {
				t.Errorf("NewCollectionLogEntry(%d) = %+v, want %+v", tt.quantity, got, tt.want)
			}
		})
	}
}

func TestCloneCollectionLog(t *testing.T) {
	t.Parallel()

	if CloneCollectionLog(nil) != nil {
		t.Error("clone of nil must stay nil")
	}

	src := map[int]CollectionLogEntry{1: NewCollectionLogEntry(1)}
	dst := CloneCollectionLog(src)
	dst[2] = NewCollectionLogEntry(5)
	if len(src) != 1 {
		t.Error("clone must not alias the source map")
	}
}
