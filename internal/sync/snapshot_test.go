// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// stubLog is a fixed CollectionLogSource.
type stubLog struct {
	cached map[int]models.CollectionLogEntry
	counts *models.CollectionLogCounts
}

func (s stubLog) Cached() map[int]models.CollectionLogEntry { return models.CloneCollectionLog(s.cached) }
func (s stubLog) Counts() *models.CollectionLogCounts       { return s.counts }

func buildWith(t *testing.T, reader *fakeReader, clog CollectionLogSource, drops RecentDropsSource, flags config.SyncConfig, captured map[int]models.CollectionLogEntry) (*models.Snapshot, map[string]json.RawMessage) {
	t.Helper()
	b := NewSnapshotBuilder(reader, clog, drops)
	b.now = func() time.Time { return time.UnixMilli(1700000000000) }

	id, _ := reader.Identity()
	snap := b.Build(id, flags, captured)

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return snap, fields
}

func TestBuild_FlagsControlPresence(t *testing.T) {
	detail := []string{"skills", "quests", "achievementDiaries", "combatAchievements", "equipment", "collectionLog", "recentDrops"}

	t.Run("all off", func(t *testing.T) {
		_, fields := buildWith(t, newFakeReader(), stubLog{}, &RecentDrops{}, config.SyncConfig{}, nil)
		for _, key := range detail {
			if _, ok := fields[key]; ok {
				t.Errorf("%s present with its flag off", key)
			}
		}
		for _, key := range []string{"username", "accountType", "world", "lastSyncedAt", "combatLevel"} {
			if _, ok := fields[key]; !ok {
				t.Errorf("%s missing, it does not depend on flags", key)
			}
		}
	})

	t.Run("all on", func(t *testing.T) {
		clog := stubLog{cached: map[int]models.CollectionLogEntry{995: {Obtained: true, Count: 1}}}
		snap, fields := buildWith(t, newFakeReader(), clog, &RecentDrops{}, allEnabled().cfg, nil)
		for _, key := range detail {
			if _, ok := fields[key]; !ok {
				t.Errorf("%s missing with its flag on", key)
			}
		}
		if len(snap.Omitted) != 0 {
			t.Errorf("Omitted = %v, want none", snap.Omitted)
		}
		if snap.LastSyncedAt != 1700000000000 {
			t.Errorf("LastSyncedAt = %d", snap.LastSyncedAt)
		}
		if snap.Username != "Zezima" || snap.World != 302 {
			t.Errorf("identity = %q/%d", snap.Username, snap.World)
		}
	})

	t.Run("single flag", func(t *testing.T) {
		_, fields := buildWith(t, newFakeReader(), stubLog{}, &RecentDrops{}, config.SyncConfig{Equipment: true}, nil)
		if _, ok := fields["equipment"]; !ok {
			t.Error("equipment missing")
		}
		if _, ok := fields["skills"]; ok {
			t.Error("skills present with its flag off")
		}
	})
}

func TestBuild_FailedReadIsOmitted(t *testing.T) {
	reader := newFakeReader()
	reader.fail[CategorySkills] = true
	reader.fail[CategoryCombatAchievements] = true

	snap, fields := buildWith(t, reader, nil, nil, allEnabled().cfg, nil)

	if snap.Skills != nil || snap.CombatAchievements != nil {
		t.Error("failed categories were filled in")
	}
	if _, ok := fields["skills"]; ok {
		t.Error("skills serialized after a failed read")
	}
	for _, c := range []string{CategorySkills, CategoryCombatAchievements, CategoryCollectionLog} {
		if !contains(snap.Omitted, c) {
			t.Errorf("Omitted = %v, missing %s", snap.Omitted, c)
		}
	}
	if contains(snap.Omitted, CategoryQuests) {
		t.Error("quests omitted though the read succeeded")
	}
	if _, ok := fields["omitted"]; ok {
		t.Error("diagnostic Omitted list serialized")
	}
}

func TestBuild_EmptyIsNotAbsent(t *testing.T) {
	reader := newFakeReader()
	reader.equipment = map[string]int{}

	_, fields := buildWith(t, reader, stubLog{cached: map[int]models.CollectionLogEntry{}}, &RecentDrops{}, allEnabled().cfg, nil)

	if string(fields["equipment"]) != "{}" {
		t.Errorf("equipment = %s, want {}", fields["equipment"])
	}
	if string(fields["collectionLog"]) != "{}" {
		t.Errorf("collectionLog = %s, want {}", fields["collectionLog"])
	}
	if string(fields["recentDrops"]) != "[]" {
		t.Errorf("recentDrops = %s, want []", fields["recentDrops"])
	}
}

func TestBuild_CollectionLogSources(t *testing.T) {
	cached := map[int]models.CollectionLogEntry{
		1: {Obtained: true, Count: 1},
		2: {Obtained: true, Count: 2},
	}
	captured := map[int]models.CollectionLogEntry{
		2: {Obtained: true, Count: 9},
	}
	counts := &models.CollectionLogCounts{Obtained: 2, Total: 1477}

	t.Run("no data is absent", func(t *testing.T) {
		snap, fields := buildWith(t, newFakeReader(), stubLog{}, nil, allEnabled().cfg, nil)
		if _, ok := fields["collectionLog"]; ok {
			t.Error("collectionLog present without any capture")
		}
		if !contains(snap.Omitted, CategoryCollectionLog) {
			t.Errorf("Omitted = %v, want collectionLog", snap.Omitted)
		}
		if snap.CollectionLogObtained != nil {
			t.Error("collectionLogObtained set without counts")
		}
	})

	t.Run("cache is reused", func(t *testing.T) {
		snap, _ := buildWith(t, newFakeReader(), stubLog{cached: cached, counts: counts}, nil, allEnabled().cfg, nil)
		if len(snap.CollectionLog) != 2 || snap.CollectionLog[2].Count != 2 {
			t.Errorf("CollectionLog = %v, want the cache", snap.CollectionLog)
		}
		if snap.CollectionLogObtained == nil || *snap.CollectionLogObtained != 2 {
			t.Errorf("CollectionLogObtained = %v, want 2", snap.CollectionLogObtained)
		}
		if snap.CollectionLogCounts == nil || snap.CollectionLogCounts.Total != 1477 {
			t.Errorf("CollectionLogCounts = %v", snap.CollectionLogCounts)
		}
	})

	t.Run("capture overrides cached items", func(t *testing.T) {
		snap, _ := buildWith(t, newFakeReader(), stubLog{cached: cached}, nil, allEnabled().cfg, captured)
		if len(snap.CollectionLog) != 2 {
			t.Fatalf("CollectionLog = %v, want cache and capture merged", snap.CollectionLog)
		}
		if snap.CollectionLog[1].Count != 1 || snap.CollectionLog[2].Count != 9 {
			t.Errorf("CollectionLog = %v, want item 2 from the capture", snap.CollectionLog)
		}
		captured[2] = models.CollectionLogEntry{}
		if snap.CollectionLog[2].Count != 9 {
			t.Error("snapshot shares the captured map")
		}
		captured[2] = models.CollectionLogEntry{Obtained: true, Count: 9}
	})

	tests := []struct {
		name     string
		cache    map[int]models.CollectionLogEntry
		captured map[int]models.CollectionLogEntry
		want     string
	}{
		{"empty capture keeps cache", cached, map[int]models.CollectionLogEntry{}, `{"1":{"obtained":true,"count":1},"2":{"obtained":true,"count":2}}`},
		{"empty capture without cache", nil, map[int]models.CollectionLogEntry{}, `{}`},
		{"capture without cache", nil, map[int]models.CollectionLogEntry{7: {Obtained: true, Count: 3}}, `{"7":{"obtained":true,"count":3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, _ := buildWith(t, newFakeReader(), stubLog{cached: tt.cache}, nil, allEnabled().cfg, tt.captured)
			if snap.CollectionLog == nil {
				t.Fatal("CollectionLog absent after a capture")
			}
			got, err := json.Marshal(snap.CollectionLog)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("CollectionLog = %s, want %s", got, tt.want)
			}
			if contains(snap.Omitted, CategoryCollectionLog) {
				t.Error("collectionLog listed as omitted after a capture")
			}
		})
	}

	t.Run("flag off keeps the obtained counter", func(t *testing.T) {
		flags := allEnabled().cfg
		flags.CollectionLog = false
		snap, fields := buildWith(t, newFakeReader(), stubLog{cached: cached, counts: counts}, &RecentDrops{}, flags, captured)
		if snap.CollectionLog != nil || snap.CollectionLogCounts != nil || snap.RecentDrops != nil {
			t.Error("collection log detail set with the flag off")
		}
		if snap.CollectionLogObtained == nil || *snap.CollectionLogObtained != 2 {
			t.Errorf("CollectionLogObtained = %v, want 2 regardless of the flag", snap.CollectionLogObtained)
		}
		if string(fields["collectionLogObtained"]) != "2" {
			t.Errorf("collectionLogObtained = %s, want 2 on the wire", fields["collectionLogObtained"])
		}
		if contains(snap.Omitted, CategoryCollectionLog) {
			t.Error("collectionLog listed as omitted with the flag off")
		}
	})
}

func TestBuild_SummaryIndependentOfFlags(t *testing.T) {
	reader := newFakeReader()
	quests, total := 150, 158
	reader.summary.QuestsCompleted = &quests
	reader.summary.QuestsTotal = &total
	reader.fail[CategoryQuests] = true

	snap, fields := buildWith(t, reader, nil, nil, config.SyncConfig{Quests: true}, nil)

	if snap.QuestsCompleted == nil || *snap.QuestsCompleted != 150 {
		t.Errorf("QuestsCompleted = %v, want 150 from the summary", snap.QuestsCompleted)
	}
	if _, ok := fields["quests"]; ok {
		t.Error("quests detail present after a failed read")
	}
	if _, ok := fields["questsTotal"]; !ok {
		t.Error("questsTotal missing")
	}
	if _, ok := fields["totalXp"]; ok {
		t.Error("totalXp present though the host could not read it")
	}
	if len(snap.Omitted) != 1 || snap.Omitted[0] != CategoryQuests {
		t.Errorf("Omitted = %v, want only the quests category", snap.Omitted)
	}
}

func TestBuild_RecentDrops(t *testing.T) {
	drops := &RecentDrops{}
	drops.Add("Abyssal whip")

	snap, _ := buildWith(t, newFakeReader(), stubLog{}, drops, allEnabled().cfg, nil)
	if len(snap.RecentDrops) != 1 || snap.RecentDrops[0] != "Abyssal whip" {
		t.Errorf("RecentDrops = %v", snap.RecentDrops)
	}
}
