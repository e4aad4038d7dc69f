// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package hostbridge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/runestatus-sync/internal/host"
)

// Inbound frame types.
const (
	FrameState           = "state"
	FrameTick            = "tick"
	FrameGameState       = "game_state"
	FrameStatChanged     = "stat_changed"
	FrameChat            = "chat"
	FrameWidgetLoaded    = "widget_loaded"
	FrameWidgetClosed    = "widget_closed"
	FrameScriptPreFired  = "script_pre_fired"
	FrameScriptPostFired = "script_post_fired"
	FrameButtonClicked   = "button_clicked"
)

// Outbound command types.
const (
	CommandRunScript      = "run_script"
	CommandChat           = "chat"
	CommandRegisterButton = "register_button"
)

// ErrUnknownFrame is returned for a well-formed frame of an unknown type.
var ErrUnknownFrame = errors.New("unknown frame type")

// SkillFrame is one skill in a state frame.
type SkillFrame struct {
	Name         string `json:"name"`
	Level        int    `json:"level"`
	BoostedLevel int    `json:"boosted_level"`
	XP           int    `json:"xp"`
}

// QuestFrame is one quest in a state frame.
type QuestFrame struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// WidgetFrame is one widget in a state frame.
type WidgetFrame struct {
	Text     string       `json:"text"`
	Visible  bool         `json:"visible"`
	Children []ChildFrame `json:"children,omitempty"`
}

// ChildFrame is a child of a WidgetFrame.
type ChildFrame struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
	ItemID  int    `json:"item_id"`
}

// StateFrame is the full host state. A nil slice or map means the plugin
// could not read that part, which is different from an empty one.
type StateFrame struct {
	Player      string `json:"player"`
	AccountType int    `json:"account_type"`
	World       int    `json:"world"`
	CombatLevel int    `json:"combat_level"`
	Tick        int    `json:"tick"`

	Skills    []SkillFrame `json:"skills"`
	Quests    []QuestFrame `json:"quests"`
	Varbits   map[int]int  `json:"varbits"`
	Varps     map[int]int  `json:"varps"`
	Equipment []int        `json:"equipment"`

	// Widgets is keyed by "group:child".
	Widgets map[string]WidgetFrame `json:"widgets"`

	// ScriptResults is keyed by ScriptKey.
	ScriptResults map[string][]int `json:"script_results"`
}

// eventFrame is the union of every event frame's fields.
type eventFrame struct {
	Type     string `json:"type"`
	Tick     int    `json:"tick"`
	State    string `json:"state"`
	Skill    string `json:"skill"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	ChatType string `json:"chat_type"`
	Text     string `json:"text"`
	GroupID  int    `json:"group_id"`
	ScriptID int    `json:"script_id"`
	Args     []int  `json:"args"`
}

// Frame is a decoded inbound frame. Exactly one of State, Event or
// ButtonGroup is meaningful, depending on Type.
type Frame struct {
	Type        string
	State       *StateFrame
	Event       host.Event
	ButtonGroup int
}

// DecodeFrame parses one text frame.
func DecodeFrame(data []byte) (Frame, error) {
	var ev eventFrame
	if err := json.Unmarshal(data, &ev); err != nil {
		return Frame{}, fmt.Errorf("failed to decode frame: %w", err)
	}

	f := Frame{Type: ev.Type}
	switch ev.Type {
	case FrameState:
		var st StateFrame
		if err := json.Unmarshal(data, &st); err != nil {
			return Frame{}, fmt.Errorf("failed to decode state frame: %w", err)
		}
		f.State = &st
	case FrameTick:
		f.Event = host.GameTick{Tick: ev.Tick}
	case FrameGameState:
		f.Event = host.GameStateChanged{State: host.ParseGameState(ev.State)}
	case FrameStatChanged:
		f.Event = host.StatChanged{Skill: ev.Skill, Level: ev.Level, Experience: ev.XP}
	case FrameChat:
		f.Event = host.ChatMessage{Type: ev.ChatType, Text: ev.Text}
	case FrameWidgetLoaded:
		f.Event = host.WidgetLoaded{GroupID: ev.GroupID}
	case FrameWidgetClosed:
		f.Event = host.WidgetClosed{GroupID: ev.GroupID}
	case FrameScriptPreFired:
		f.Event = host.ScriptPreFired{ScriptID: ev.ScriptID, Args: ev.Args}
	case FrameScriptPostFired:
		f.Event = host.ScriptPostFired{ScriptID: ev.ScriptID}
	case FrameButtonClicked:
		f.ButtonGroup = ev.GroupID
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownFrame, ev.Type)
	}
	return f, nil
}

// Command is an outbound request to the plugin.
type Command struct {
	Type     string `json:"type"`
	ScriptID int    `json:"script_id,omitempty"`
	Args     []int  `json:"args,omitempty"`
	Text     string `json:"text,omitempty"`
	GroupID  int    `json:"group_id,omitempty"`
	Label    string `json:"label,omitempty"`
}

// ScriptKey formats the script_results key for a script and its arguments:
// "2267" without arguments, "2200:3" or "1:2,5" with them.
func ScriptKey(id int, args ...int) string {
	if len(args) == 0 {
		return strconv.Itoa(id)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strconv.Itoa(a)
	}
	return strconv.Itoa(id) + ":" + strings.Join(parts, ",")
}

// WidgetKey formats the widgets key for a component id.
func WidgetKey(id host.ComponentID) string {
	return strconv.Itoa(id.Group()) + ":" + strconv.Itoa(id.Child())
}
