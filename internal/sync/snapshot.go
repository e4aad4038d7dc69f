// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// Snapshot category names, used in Snapshot.Omitted and metric labels.
const (
	CategorySkills             = "skills"
	CategoryQuests             = "quests"
	CategoryDiaries            = "achievementDiaries"
	CategoryCombatAchievements = "combatAchievements"
	CategoryEquipment          = "equipment"
	CategoryCollectionLog      = "collectionLog"
)

// CollectionLogSource supplies collection log data captured earlier in the
// session.
type CollectionLogSource interface {
	Cached() map[int]models.CollectionLogEntry
	Counts() *models.CollectionLogCounts
}

// RecentDropsSource supplies item names announced in chat this session.
type RecentDropsSource interface {
	RecentDrops() []string
}

// SnapshotBuilder assembles a Snapshot from independent readers.
type SnapshotBuilder struct {
	reader Reader
	clog   CollectionLogSource
	drops  RecentDropsSource
	now    func() time.Time
	log    zerolog.Logger
}

// NewSnapshotBuilder creates a builder. clog and drops may be nil.
func NewSnapshotBuilder(reader Reader, clog CollectionLogSource, drops RecentDropsSource) *SnapshotBuilder {
	return &SnapshotBuilder{
		reader: reader,
		clog:   clog,
		drops:  drops,
		now:    time.Now,
		log:    logging.WithComponent("snapshot"),
	}
}

// Build reads every enabled category and returns a new Snapshot. It never
// fails: a category the host cannot provide is left out and named in
// Snapshot.Omitted. captured, when non-nil, is the result of a capture that
// completed for this attempt and replaces cached entries item by item.
//
//nolint:gocritic // flags is a small value copied from the settings store
func (b *SnapshotBuilder) Build(id Identity, flags config.SyncConfig, captured map[int]models.CollectionLogEntry) *models.Snapshot {
	snap := &models.Snapshot{
		Username:     id.Username,
		AccountType:  id.AccountType,
		World:        id.World,
		LastSyncedAt: b.now().UnixMilli(),
	}

	b.applySummary(snap)

	if flags.Skills {
		if v, ok := b.reader.Skills(); ok {
			snap.Skills = v
		} else {
			b.omit(snap, CategorySkills)
		}
	}
	if flags.Quests {
		if v, ok := b.reader.Quests(); ok {
			snap.Quests = v
		} else {
			b.omit(snap, CategoryQuests)
		}
	}
	if flags.Diaries {
		if v, ok := b.reader.Diaries(); ok {
			snap.AchievementDiaries = v
		} else {
			b.omit(snap, CategoryDiaries)
		}
	}
	if flags.CombatAchievements {
		if v, ok := b.reader.CombatAchievements(); ok {
			snap.CombatAchievements = v
		} else {
			b.omit(snap, CategoryCombatAchievements)
		}
	}
	if flags.Equipment {
		if v, ok := b.reader.Equipment(); ok {
			snap.Equipment = v
		} else {
			b.omit(snap, CategoryEquipment)
		}
	}
	if flags.CollectionLog {
		b.applyCollectionLog(snap, captured)
	}

	metrics.RecordOmitted(snap.Omitted)
	return snap
}

func (b *SnapshotBuilder) applySummary(snap *models.Snapshot) {
	s := b.reader.Summary()
	snap.CombatLevel = s.CombatLevel
	snap.TotalLevel = s.TotalLevel
	snap.TotalXP = s.TotalXP
	snap.QuestsCompleted = s.QuestsCompleted
	snap.QuestsTotal = s.QuestsTotal
	snap.DiaryTasksCompleted = s.DiaryTasksCompleted
	snap.DiaryTasksTotal = s.DiaryTasksTotal
	snap.CombatTasksCompleted = s.CombatTasksCompleted
	snap.CombatTasksTotal = s.CombatTasksTotal
	snap.TimePlayedMinutes = s.TimePlayedMinutes

	if b.clog != nil {
		if counts := b.clog.Counts(); counts != nil {
			obtained := counts.Obtained
			snap.CollectionLogObtained = &obtained
		}
	}
}

// applyCollectionLog fills the collection log detail fields. Without a capture
// this attempt or earlier in the session the entries are unknown, not empty.
// A capture that timed out with nothing never erases what the cache holds.
func (b *SnapshotBuilder) applyCollectionLog(snap *models.Snapshot, captured map[int]models.CollectionLogEntry) {
	var entries map[int]models.CollectionLogEntry
	if b.clog != nil {
		entries = b.clog.Cached()
	}
	if captured != nil {
		if entries == nil {
			entries = make(map[int]models.CollectionLogEntry, len(captured))
		}
		for id, e := range captured {
			entries[id] = e
		}
	}
	if entries != nil {
		snap.CollectionLog = entries
	} else {
		b.omit(snap, CategoryCollectionLog)
	}

	if b.clog != nil {
		snap.CollectionLogCounts = b.clog.Counts()
	}

	if b.drops != nil {
		drops := b.drops.RecentDrops()
		if drops == nil {
			drops = []string{}
		}
		snap.RecentDrops = drops
	}
}

func (b *SnapshotBuilder) omit(snap *models.Snapshot, category string) {
	snap.Omitted = append(snap.Omitted, category)
	b.log.Debug().Str("category", category).Msg("Host data unavailable, omitting category")
}
