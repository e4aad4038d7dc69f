// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Sync       SyncConfig       `koanf:"sync"`
	Transport  TransportConfig  `koanf:"transport"`
	Host       HostConfig       `koanf:"host"`
	API        APIConfig        `koanf:"api"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// SyncConfig holds the user-facing sync toggles.
type SyncConfig struct {
	Enabled            bool `koanf:"enabled"`
	IntervalMinutes    int  `koanf:"interval_minutes" validate:"min=1,max=60"`
	Skills             bool `koanf:"skills"`
	Quests             bool `koanf:"quests"`
	Diaries            bool `koanf:"diaries"`
	CombatAchievements bool `koanf:"combat_achievements"`
	Equipment          bool `koanf:"equipment"`
	CollectionLog      bool `koanf:"collection_log"`
	ShowNotification   bool `koanf:"show_notification"`

	// WallclockCheckInterval is how often the wall-clock scheduler asks for an
	// ambient sync, independent of the host tick.
	WallclockCheckInterval time.Duration `koanf:"wallclock_check_interval" validate:"min=1s,max=1h"`
}

// AmbientInterval returns the minimum spacing between ambient syncs.
func (s SyncConfig) AmbientInterval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// TransportConfig configures the HTTPS snapshot sender.
type TransportConfig struct {
	Endpoint  string        `koanf:"endpoint" validate:"required,scheme=http https"`
	UserAgent string        `koanf:"user_agent" validate:"required"`
	Timeout   time.Duration `koanf:"timeout" validate:"min=1s,max=5m"`

	// AuthHeader and AuthToken add one static header to every request when
	// both are set.
	AuthHeader string `koanf:"auth_header"`
	AuthToken  string `koanf:"auth_token"`

	BreakerFailures uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"min=1s"`
}

// HostConfig configures the websocket bridge to the game client plugin.
type HostConfig struct {
	BridgeURL        string        `koanf:"bridge_url" validate:"required,scheme=ws wss"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout" validate:"min=1s"`
}

// APIConfig configures the local status API.
type APIConfig struct {
	Enabled             bool   `koanf:"enabled"`
	ListenAddr          string `koanf:"listen_addr" validate:"omitempty,hostname_port"`
	ManualRatePerMinute int    `koanf:"manual_rate_per_minute" validate:"min=1"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// SupervisorConfig tunes the suture tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`
}
