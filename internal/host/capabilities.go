// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package host

// ComponentID packs a widget group id and child id the way the host does:
// group in the high 16 bits, child in the low 16 bits.
type ComponentID int

// NewComponentID builds a ComponentID from its group and child parts.
func NewComponentID(group, child int) ComponentID {
	return ComponentID(group<<16 | child)
}

// Group returns the interface group id.
func (c ComponentID) Group() int { return int(c) >> 16 }

// Child returns the child index within the group.
func (c ComponentID) Child() int { return int(c) & 0xFFFF }

// IdentitySource exposes who is logged in and where.
type IdentitySource interface {
	// PlayerName returns the local player's display name. ok is false until
	// the local player exists (not yet fully logged in).
	PlayerName() (name string, ok bool)
	AccountType() (accountType int, ok bool)
	World() (world int, ok bool)
	CombatLevel() (level int, ok bool)
}

// ClockSource exposes the host tick counter.
type ClockSource interface {
	TickCount() int
}

// SkillStat is one skill as the host reports it.
type SkillStat struct {
	Name string
	// BoostedLevel is the current, possibly boosted or drained, level.
	BoostedLevel int
	// RealLevel is the unmodified level derived from experience.
	RealLevel  int
	Experience int
}

// StatSource exposes skill levels and experience. Skills excludes the
// synthetic "Overall" entry.
type StatSource interface {
	Skills() ([]SkillStat, bool)
	Skill(name string) (SkillStat, bool)
	TotalLevel() (int, bool)
	TotalExperience() (int64, bool)
}

// Quest states as the host names them.
const (
	QuestNotStarted = "NOT_STARTED"
	QuestInProgress = "IN_PROGRESS"
	QuestFinished   = "FINISHED"
)

// QuestState is one quest and its progress.
type QuestState struct {
	Name  string
	State string
}

// QuestSource enumerates quests.
type QuestSource interface {
	Quests() ([]QuestState, bool)
}

// VarSource reads host variables.
type VarSource interface {
	Varbit(id int) (int, bool)
	Varp(id int) (int, bool)
}

// ProgressScriptSource runs a host script synchronously and returns its
// integer stack.
type ProgressScriptSource interface {
	RunScript(id int, args ...int) ([]int, bool)
}

// Widget is a read-only view of one widget node.
type Widget struct {
	ID      ComponentID
	Text    string
	Visible bool
	ItemID  int
}

// WidgetSource reads the host UI.
type WidgetSource interface {
	WidgetText(id ComponentID) (string, bool)
	WidgetChildren(id ComponentID) ([]Widget, bool)
	WidgetVisible(id ComponentID) bool
}

// EquipmentSource reports worn items. The slice is indexed by equipment slot;
// an item id of -1 marks an empty slot.
type EquipmentSource interface {
	EquippedItems() ([]int, bool)
}

// Notifier posts a transient game message to the player.
type Notifier interface {
	Notify(text string)
}

// ScriptRunner asks the host to run a script without waiting for a result.
// Used to kick off bulk loads whose output arrives later as events.
type ScriptRunner interface {
	QueueScript(id int, args ...int)
}

// UITrigger injects a button into the host UI. onClick runs on the dispatch
// loop. The returned Subscription removes the button when released.
type UITrigger interface {
	RegisterButton(groupID int, label string, onClick func()) Subscription
}

// Client bundles every capability a full host provides.
type Client interface {
	IdentitySource
	ClockSource
	StatSource
	QuestSource
	VarSource
	ProgressScriptSource
	WidgetSource
	EquipmentSource
	Notifier
	ScriptRunner
	UITrigger
}
