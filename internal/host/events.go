// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package host

// EventKind identifies an event type on the Bus.
type EventKind int

// Event kinds.
const (
	KindGameStateChanged EventKind = iota + 1
	KindGameTick
	KindStatChanged
	KindChatMessage
	KindWidgetLoaded
	KindWidgetClosed
	KindScriptPreFired
	KindScriptPostFired
)

func (k EventKind) String() string {
	switch k {
	case KindGameStateChanged:
		return "game_state"
	case KindGameTick:
		return "tick"
	case KindStatChanged:
		return "stat_changed"
	case KindChatMessage:
		return "chat"
	case KindWidgetLoaded:
		return "widget_loaded"
	case KindWidgetClosed:
		return "widget_closed"
	case KindScriptPreFired:
		return "script_pre_fired"
	case KindScriptPostFired:
		return "script_post_fired"
	default:
		return "unknown"
	}
}

// Event is anything published on the Bus.
type Event interface {
	Kind() EventKind
}

// GameState mirrors the host's coarse session state.
type GameState int

// Game states the agent reacts to. Any other value ends the session.
const (
	GameStateUnknown GameState = iota
	GameStateLoginScreen
	GameStateLoggingIn
	GameStateLoading
	GameStateLoggedIn
	GameStateConnectionLost
	GameStateHopping
)

// ParseGameState maps the host's state names onto GameState.
func ParseGameState(s string) GameState {
	switch s {
	case "LOGIN_SCREEN":
		return GameStateLoginScreen
	case "LOGGING_IN":
		return GameStateLoggingIn
	case "LOADING":
		return GameStateLoading
	case "LOGGED_IN":
		return GameStateLoggedIn
	case "CONNECTION_LOST":
		return GameStateConnectionLost
	case "HOPPING":
		return GameStateHopping
	default:
		return GameStateUnknown
	}
}

// GameStateChanged fires on every session state transition.
type GameStateChanged struct {
	State GameState
}

// GameTick fires once per host tick.
type GameTick struct {
	Tick int
}

// StatChanged fires after a skill's level or experience changes. Level is the
// boosted level after the change.
type StatChanged struct {
	Skill      string
	Level      int
	Experience int
}

// Chat message types the agent distinguishes.
const (
	ChatGameMessage = "GAMEMESSAGE"
	ChatSpam        = "SPAM"
)

// ChatMessage is a message the host added to the chatbox.
type ChatMessage struct {
	Type string
	Text string
}

// WidgetLoaded fires when an interface group is opened.
type WidgetLoaded struct {
	GroupID int
}

// WidgetClosed fires when an interface group is closed.
type WidgetClosed struct {
	GroupID int
}

// ScriptPreFired fires before the host runs a script, carrying its arguments.
type ScriptPreFired struct {
	ScriptID int
	Args     []int
}

// ScriptPostFired fires after the host ran a script.
type ScriptPostFired struct {
	ScriptID int
}

func (GameStateChanged) Kind() EventKind { return KindGameStateChanged }
func (GameTick) Kind() EventKind         { return KindGameTick }
func (StatChanged) Kind() EventKind      { return KindStatChanged }
func (ChatMessage) Kind() EventKind      { return KindChatMessage }
func (WidgetLoaded) Kind() EventKind     { return KindWidgetLoaded }
func (WidgetClosed) Kind() EventKind     { return KindWidgetClosed }
func (ScriptPreFired) Kind() EventKind   { return KindScriptPreFired }
func (ScriptPostFired) Kind() EventKind  { return KindScriptPostFired }
