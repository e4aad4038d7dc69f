// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package models

import (
	"github.com/goccy/go-json"
)

// Snapshot is the consolidated payload pushed to the RuneStatus service once
// per sync attempt. It is built once, handed to the transport, and never
// mutated afterwards.
//
// Summary counters are pointers: a nil counter means the host could not
// produce the value when the snapshot was built (for example during the
// login transition), and it is left out of the wire payload.
//
// Detail categories follow a stricter rule. A nil map (or nil slice, or nil
// pointer) means the category is ABSENT, either because its feature flag is
// disabled or because the read failed. A non-nil empty map is a category that
// was read and is legitimately empty. The two encode differently: absent
// categories are omitted from the JSON object, empty ones encode as {} or [].
type Snapshot struct {
	// Identity
	Username    string `json:"username"`
	AccountType int    `json:"accountType"`
	World       int    `json:"world"`

	// Summary counters (always requested, independent of detail flags)
	CombatLevel           *int   `json:"combatLevel,omitempty"`
	TotalLevel            *int   `json:"totalLevel,omitempty"`
	TotalXP               *int64 `json:"totalXp,omitempty"`
	QuestsCompleted       *int   `json:"questsCompleted,omitempty"`
	QuestsTotal           *int   `json:"questsTotal,omitempty"`
	DiaryTasksCompleted   *int   `json:"diaryTasksCompleted,omitempty"`
	DiaryTasksTotal       *int   `json:"diaryTasksTotal,omitempty"`
	CombatTasksCompleted  *int   `json:"combatTasksCompleted,omitempty"`
	CombatTasksTotal      *int   `json:"combatTasksTotal,omitempty"`
	CollectionLogObtained *int   `json:"collectionLogObtained,omitempty"`
	TimePlayedMinutes     *int   `json:"timePlayedMinutes,omitempty"`

	// Detail categories, see the type comment for nil semantics.
	Skills              map[string]SkillData       `json:"-"`
	Quests              map[string]string          `json:"-"`
	AchievementDiaries  map[string]DiaryData       `json:"-"`
	CombatAchievements  *CombatAchievementData     `json:"-"`
	Equipment           map[string]int             `json:"-"`
	CollectionLog       map[int]CollectionLogEntry `json:"-"`
	CollectionLogCounts *CollectionLogCounts       `json:"-"`
	RecentDrops         []string                   `json:"-"`

	// LastSyncedAt is the build time in Unix milliseconds.
	LastSyncedAt int64 `json:"lastSyncedAt"`

	// Omitted lists the detail categories that were requested but could not
	// be read from the host. Missing summary counters are not listed; they
	// are simply nil. It is diagnostic only and never sent.
	Omitted []string `json:"-"`
}

// SkillData is the real (unboosted) level and experience of one skill.
type SkillData struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}

// DiaryData records which tiers of one achievement diary region are complete.
type DiaryData struct {
	Easy   bool `json:"easy"`
	Medium bool `json:"medium"`
	Hard   bool `json:"hard"`
	Elite  bool `json:"elite"`
}

// CombatAchievementData holds the per-tier combat achievement progress values.
type CombatAchievementData struct {
	Easy        int `json:"Easy"`
	Medium      int `json:"Medium"`
	Hard        int `json:"Hard"`
	Elite       int `json:"Elite"`
	Master      int `json:"Master"`
	Grandmaster int `json:"Grandmaster"`
}

// wireSnapshot adds the detail categories back with pointer indirection so
// omitempty drops only the absent ones.
type wireSnapshot struct {
	snapshotFields
	Skills              *map[string]SkillData       `json:"skills,omitempty"`
	Quests              *map[string]string          `json:"quests,omitempty"`
	AchievementDiaries  *map[string]DiaryData       `json:"achievementDiaries,omitempty"`
	CombatAchievements  *CombatAchievementData      `json:"combatAchievements,omitempty"`
	Equipment           *map[string]int             `json:"equipment,omitempty"`
	CollectionLog       *map[int]CollectionLogEntry `json:"collectionLog,omitempty"`
	CollectionLogCounts *CollectionLogCounts        `json:"collectionLogCounts,omitempty"`
	RecentDrops         *[]string                   `json:"recentDrops,omitempty"`
}

// snapshotFields strips the MarshalJSON method so embedding does not recurse.
type snapshotFields Snapshot

// MarshalJSON encodes the snapshot in the RuneStatus wire format.
//
//nolint:gocritic // Snapshot is a value type by contract
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSnapshot{
		snapshotFields:      snapshotFields(s),
		Skills:              present(s.Skills),
		Quests:              present(s.Quests),
		AchievementDiaries:  present(s.AchievementDiaries),
		CombatAchievements:  s.CombatAchievements,
		Equipment:           present(s.Equipment),
		CollectionLog:       present(s.CollectionLog),
		CollectionLogCounts: s.CollectionLogCounts,
		RecentDrops:         presentSlice(s.RecentDrops),
	})
}

func present[M ~map[K]V, K comparable, V any](m M) *M {
	if m == nil {
		return nil
	}
	return &m
}

func presentSlice[S ~[]E, E any](s S) *S {
	if s == nil {
		return nil
	}
	return &s
}
