// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package sync

import (
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/models"
)

// Identity is who the snapshot belongs to.
type Identity struct {
	Username    string
	AccountType int
	World       int
}

// Summary holds the headline counters. A nil field could not be read.
type Summary struct {
	CombatLevel          *int
	TotalLevel           *int
	TotalXP              *int64
	QuestsCompleted      *int
	QuestsTotal          *int
	DiaryTasksCompleted  *int
	DiaryTasksTotal      *int
	CombatTasksCompleted *int
	CombatTasksTotal     *int
	TimePlayedMinutes    *int
}

// Reader reads each snapshot category independently. Every detail method
// returns ok=false when the host cannot produce the category right now.
type Reader interface {
	Identity() (Identity, bool)
	Summary() Summary
	Skills() (map[string]models.SkillData, bool)
	Quests() (map[string]string, bool)
	Diaries() (map[string]models.DiaryData, bool)
	CombatAchievements() (*models.CombatAchievementData, bool)
	Equipment() (map[string]int, bool)
}

// Progress scripts and variables the summary counters come from. The host
// plugin evaluates these each tick and reports their stacks.
const (
	// QuestProgressScriptID returns [completed, total].
	QuestProgressScriptID = 2267
	// DiaryProgressScriptID takes a region index and returns [completed, total].
	DiaryProgressScriptID = 2200
	// CombatTaskProgressScriptID returns [completed, total].
	CombatTaskProgressScriptID = 4784

	// TimePlayedVarp holds minutes played once the account summary has loaded.
	TimePlayedVarp = 526

	// AccountTypeVarbit is 0 for a normal account, otherwise the ironman mode.
	AccountTypeVarbit = 1777
)

// diaryRegion names one achievement diary region and its four tier varbits.
type diaryRegion struct {
	name  string
	tiers [4]int // easy, medium, hard, elite
}

var diaryRegions = []diaryRegion{
	{"Ardougne", [4]int{4458, 4459, 4460, 4461}},
	{"Desert", [4]int{4483, 4484, 4485, 4486}},
	{"Falador", [4]int{4462, 4463, 4464, 4465}},
	{"Fremennik", [4]int{4491, 4492, 4493, 4494}},
	{"Kandarin", [4]int{4475, 4476, 4477, 4478}},
	{"Karamja", [4]int{3578, 3598, 3611, 4566}},
	{"Kourend & Kebos", [4]int{7925, 7926, 7927, 7928}},
	{"Lumbridge & Draynor", [4]int{4495, 4496, 4497, 4498}},
	{"Morytania", [4]int{4487, 4488, 4489, 4490}},
	{"Varrock", [4]int{4479, 4480, 4481, 4482}},
	{"Western Provinces", [4]int{4471, 4472, 4473, 4474}},
	{"Wilderness", [4]int{4466, 4467, 4468, 4469}},
}

// Combat achievement tier varbits, Easy through Grandmaster.
var combatTierVarbits = [6]int{12855, 12856, 12857, 12858, 12859, 12860}

// equipmentSlots names worn-item slots in container order.
var equipmentSlots = []string{"Head", "Cape", "Amulet", "Weapon", "Body", "Shield", "Legs", "Gloves", "Boots", "Ring", "Ammo"}

// HostReader implements Reader over the host capability interfaces.
type HostReader struct {
	identity  host.IdentitySource
	stats     host.StatSource
	quests    host.QuestSource
	vars      host.VarSource
	scripts   host.ProgressScriptSource
	equipment host.EquipmentSource
}

// NewHostReader creates a HostReader over a full host client.
func NewHostReader(c host.Client) *HostReader {
	return &HostReader{
		identity:  c,
		stats:     c,
		quests:    c,
		vars:      c,
		scripts:   c,
		equipment: c,
	}
}

// Identity reads the player name, account type and world. It fails only when
// the player name is unavailable.
func (r *HostReader) Identity() (Identity, bool) {
	name, ok := r.identity.PlayerName()
	if !ok || name == "" {
		return Identity{}, false
	}
	id := Identity{Username: name}
	if v, ok := r.vars.Varbit(AccountTypeVarbit); ok {
		id.AccountType = v
	} else if v, ok := r.identity.AccountType(); ok {
		id.AccountType = v
	}
	if w, ok := r.identity.World(); ok {
		id.World = w
	}
	return id, true
}

// Summary reads the headline counters through bulk host queries.
func (r *HostReader) Summary() Summary {
	var s Summary

	if v, ok := r.identity.CombatLevel(); ok {
		s.CombatLevel = &v
	}
	if v, ok := r.stats.TotalLevel(); ok {
		s.TotalLevel = &v
	}
	if v, ok := r.stats.TotalExperience(); ok {
		s.TotalXP = &v
	}
	s.QuestsCompleted, s.QuestsTotal = r.progressPair(QuestProgressScriptID)
	s.CombatTasksCompleted, s.CombatTasksTotal = r.progressPair(CombatTaskProgressScriptID)
	s.DiaryTasksCompleted, s.DiaryTasksTotal = r.diaryTaskTotals()
	if v, ok := r.vars.Varp(TimePlayedVarp); ok {
		s.TimePlayedMinutes = &v
	}
	return s
}

func (r *HostReader) progressPair(scriptID int, args ...int) (completed, total *int) {
	stack, ok := r.scripts.RunScript(scriptID, args...)
	if !ok || len(stack) < 2 {
		return nil, nil
	}
	c, t := stack[0], stack[1]
	return &c, &t
}

// diaryTaskTotals sums the per-region progress script. Any missing region
// makes both totals unknown.
func (r *HostReader) diaryTaskTotals() (completed, total *int) {
	var c, t int
	for i := range diaryRegions {
		rc, rt := r.progressPair(DiaryProgressScriptID, i)
		if rc == nil {
			return nil, nil
		}
		c += *rc
		t += *rt
	}
	return &c, &t
}

// Skills returns real level and experience per skill.
func (r *HostReader) Skills() (map[string]models.SkillData, bool) {
	stats, ok := r.stats.Skills()
	if !ok {
		return nil, false
	}
	out := make(map[string]models.SkillData, len(stats))
	for _, s := range stats {
		if s.Name == "" || s.Name == "Overall" {
			continue
		}
		out[s.Name] = models.SkillData{Level: s.RealLevel, XP: s.Experience}
	}
	return out, true
}

// Quests returns the state name of every quest.
func (r *HostReader) Quests() (map[string]string, bool) {
	qs, ok := r.quests.Quests()
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(qs))
	for _, q := range qs {
		out[q.Name] = q.State
	}
	return out, true
}

// Diaries returns tier completion for every region. A tier varbit of 1 is
// complete.
func (r *HostReader) Diaries() (map[string]models.DiaryData, bool) {
	out := make(map[string]models.DiaryData, len(diaryRegions))
	for _, region := range diaryRegions {
		var done [4]bool
		for i, varbit := range region.tiers {
			v, ok := r.vars.Varbit(varbit)
			if !ok {
				return nil, false
			}
			done[i] = v == 1
		}
		out[region.name] = models.DiaryData{Easy: done[0], Medium: done[1], Hard: done[2], Elite: done[3]}
	}
	return out, true
}

// CombatAchievements returns the raw tier varbit values.
func (r *HostReader) CombatAchievements() (*models.CombatAchievementData, bool) {
	var v [6]int
	for i, varbit := range combatTierVarbits {
		val, ok := r.vars.Varbit(varbit)
		if !ok {
			return nil, false
		}
		v[i] = val
	}
	return &models.CombatAchievementData{
		Easy:        v[0],
		Medium:      v[1],
		Hard:        v[2],
		Elite:       v[3],
		Master:      v[4],
		Grandmaster: v[5],
	}, true
}

// Equipment returns the item id worn in each named slot. Empty slots are
// left out; an empty map means nothing is worn.
func (r *HostReader) Equipment() (map[string]int, bool) {
	items, ok := r.equipment.EquippedItems()
	if !ok {
		return nil, false
	}
	out := make(map[string]int)
	for i := 0; i < len(items) && i < len(equipmentSlots); i++ {
		if items[i] >= 0 {
			out[equipmentSlots[i]] = items[i]
		}
	}
	return out, true
}
