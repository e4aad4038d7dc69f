// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package hostbridge

import (
	"math"

	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/logging"
)

// Commander sends commands to the plugin.
type Commander interface {
	Send(cmd Command) error
}

type button struct {
	id      uint64
	label   string
	onClick func()
}

// Mirror is the agent's copy of the host state, rebuilt from each state
// frame and patched by events in between. It implements host.Client. All
// methods must be called on the dispatch loop.
type Mirror struct {
	cmd Commander

	state     *StateFrame
	gameState host.GameState
	tick      int

	buttons map[int]button
	nextID  uint64
}

var _ host.Client = (*Mirror)(nil)

// NewMirror creates an empty mirror that sends commands through cmd.
func NewMirror(cmd Commander) *Mirror {
	return &Mirror{cmd: cmd, buttons: make(map[int]button)}
}

// Replace installs a new state frame.
func (m *Mirror) Replace(st *StateFrame) {
	m.state = st
	if st != nil && st.Tick > m.tick {
		m.tick = st.Tick
	}
}

// Reset forgets all host state. Registered buttons are kept so they can be
// registered again after a reconnect.
func (m *Mirror) Reset() {
	m.state = nil
	m.gameState = host.GameStateUnknown
}

// Apply patches the mirror with an event before it is published.
func (m *Mirror) Apply(e host.Event) {
	switch ev := e.(type) {
	case host.GameTick:
		m.tick = ev.Tick
	case host.GameStateChanged:
		m.gameState = ev.State
	case host.StatChanged:
		if m.state == nil {
			return
		}
		for i := range m.state.Skills {
			if m.state.Skills[i].Name == ev.Skill {
				sk := &m.state.Skills[i]
				sk.BoostedLevel = ev.Level
				sk.XP = ev.Experience
				if lvl := levelForXP(ev.Experience); lvl > sk.Level {
					sk.Level = lvl
				}
				return
			}
		}
	}
}

// xpTable[l] is the experience needed for level l+1.
var xpTable = func() [maxLevel]int {
	var t [maxLevel]int
	points := 0
	for lvl := 1; lvl < maxLevel; lvl++ {
		points += int(math.Floor(float64(lvl) + 300*math.Pow(2, float64(lvl)/7)))
		t[lvl] = points / 4
	}
	return t
}()

const maxLevel = 99

// levelForXP returns the real level for an experience total, capped at 99.
func levelForXP(xp int) int {
	lvl := 1
	for lvl < maxLevel && xp >= xpTable[lvl] {
		lvl++
	}
	return lvl
}

// GameState returns the last reported game state.
func (m *Mirror) GameState() host.GameState { return m.gameState }

// PlayerName implements host.IdentitySource.
func (m *Mirror) PlayerName() (string, bool) {
	if m.state == nil || m.state.Player == "" {
		return "", false
	}
	return m.state.Player, true
}

// AccountType implements host.IdentitySource.
func (m *Mirror) AccountType() (int, bool) {
	if m.state == nil {
		return 0, false
	}
	return m.state.AccountType, true
}

// World implements host.IdentitySource.
func (m *Mirror) World() (int, bool) {
	if m.state == nil || m.state.World == 0 {
		return 0, false
	}
	return m.state.World, true
}

// CombatLevel implements host.IdentitySource.
func (m *Mirror) CombatLevel() (int, bool) {
	if m.state == nil || m.state.CombatLevel == 0 {
		return 0, false
	}
	return m.state.CombatLevel, true
}

// TickCount implements host.ClockSource.
func (m *Mirror) TickCount() int { return m.tick }

// Skills implements host.StatSource.
func (m *Mirror) Skills() ([]host.SkillStat, bool) {
	if m.state == nil || m.state.Skills == nil {
		return nil, false
	}
	out := make([]host.SkillStat, 0, len(m.state.Skills))
	for _, s := range m.state.Skills {
		if s.Name != "Overall" {
			out = append(out, toSkillStat(s))
		}
	}
	return out, true
}

// Skill implements host.StatSource.
func (m *Mirror) Skill(name string) (host.SkillStat, bool) {
	if m.state == nil {
		return host.SkillStat{}, false
	}
	for _, s := range m.state.Skills {
		if s.Name == name {
			return toSkillStat(s), true
		}
	}
	return host.SkillStat{}, false
}

func toSkillStat(s SkillFrame) host.SkillStat {
	return host.SkillStat{Name: s.Name, BoostedLevel: s.BoostedLevel, RealLevel: s.Level, Experience: s.XP}
}

// TotalLevel implements host.StatSource.
func (m *Mirror) TotalLevel() (int, bool) {
	if m.state == nil || m.state.Skills == nil {
		return 0, false
	}
	total := 0
	for _, s := range m.state.Skills {
		if s.Name != "Overall" {
			total += s.Level
		}
	}
	return total, true
}

// TotalExperience implements host.StatSource.
func (m *Mirror) TotalExperience() (int64, bool) {
	if m.state == nil || m.state.Skills == nil {
		return 0, false
	}
	var total int64
	for _, s := range m.state.Skills {
		if s.Name != "Overall" {
			total += int64(s.XP)
		}
	}
	return total, true
}

// Quests implements host.QuestSource.
func (m *Mirror) Quests() ([]host.QuestState, bool) {
	if m.state == nil || m.state.Quests == nil {
		return nil, false
	}
	out := make([]host.QuestState, len(m.state.Quests))
	for i, q := range m.state.Quests {
		out[i] = host.QuestState{Name: q.Name, State: q.State}
	}
	return out, true
}

// Varbit implements host.VarSource.
func (m *Mirror) Varbit(id int) (int, bool) {
	if m.state == nil {
		return 0, false
	}
	v, ok := m.state.Varbits[id]
	return v, ok
}

// Varp implements host.VarSource.
func (m *Mirror) Varp(id int) (int, bool) {
	if m.state == nil {
		return 0, false
	}
	v, ok := m.state.Varps[id]
	return v, ok
}

// RunScript implements host.ProgressScriptSource. Only scripts the plugin
// evaluated for the last state frame can be answered.
func (m *Mirror) RunScript(id int, args ...int) ([]int, bool) {
	if m.state == nil {
		return nil, false
	}
	stack, ok := m.state.ScriptResults[ScriptKey(id, args...)]
	if !ok {
		return nil, false
	}
	return append([]int(nil), stack...), true
}

func (m *Mirror) widget(id host.ComponentID) (WidgetFrame, bool) {
	if m.state == nil {
		return WidgetFrame{}, false
	}
	w, ok := m.state.Widgets[WidgetKey(id)]
	return w, ok
}

// WidgetText implements host.WidgetSource.
func (m *Mirror) WidgetText(id host.ComponentID) (string, bool) {
	w, ok := m.widget(id)
	return w.Text, ok
}

// WidgetChildren implements host.WidgetSource.
func (m *Mirror) WidgetChildren(id host.ComponentID) ([]host.Widget, bool) {
	w, ok := m.widget(id)
	if !ok {
		return nil, false
	}
	out := make([]host.Widget, len(w.Children))
	for i, c := range w.Children {
		out[i] = host.Widget{ID: id, Text: c.Text, Visible: c.Visible, ItemID: c.ItemID}
	}
	return out, true
}

// WidgetVisible implements host.WidgetSource.
func (m *Mirror) WidgetVisible(id host.ComponentID) bool {
	w, ok := m.widget(id)
	return ok && w.Visible
}

// EquippedItems implements host.EquipmentSource.
func (m *Mirror) EquippedItems() ([]int, bool) {
	if m.state == nil || m.state.Equipment == nil {
		return nil, false
	}
	return append([]int{}, m.state.Equipment...), true
}

// Notify implements host.Notifier.
func (m *Mirror) Notify(text string) {
	if err := m.cmd.Send(Command{Type: CommandChat, Text: text}); err != nil {
		logging.Warn().Err(err).Str("text", text).Msg("Failed to send chat notification")
	}
}

// QueueScript implements host.ScriptRunner.
func (m *Mirror) QueueScript(id int, args ...int) {
	if err := m.cmd.Send(Command{Type: CommandRunScript, ScriptID: id, Args: args}); err != nil {
		logging.Warn().Err(err).Int("script_id", id).Msg("Failed to queue host script")
	}
}

// RegisterButton implements host.UITrigger. One button per interface group;
// registering again replaces the previous one.
func (m *Mirror) RegisterButton(groupID int, label string, onClick func()) host.Subscription {
	m.nextID++
	id := m.nextID
	m.buttons[groupID] = button{id: id, label: label, onClick: onClick}
	m.sendButton(groupID, label)

	return host.SubscriptionFunc(func() {
		if b, ok := m.buttons[groupID]; ok && b.id == id {
			delete(m.buttons, groupID)
		}
	})
}

func (m *Mirror) sendButton(groupID int, label string) {
	if err := m.cmd.Send(Command{Type: CommandRegisterButton, GroupID: groupID, Label: label}); err != nil {
		logging.Debug().Err(err).Int("group_id", groupID).Msg("Button registration deferred until connected")
	}
}

// ResendButtons registers every button again, after a reconnect.
func (m *Mirror) ResendButtons() {
	for group, b := range m.buttons {
		m.sendButton(group, b.label)
	}
}

// Click runs the callback of the button on groupID, if any.
func (m *Mirror) Click(groupID int) bool {
	b, ok := m.buttons[groupID]
	if !ok {
		return false
	}
	b.onClick()
	return true
}
