// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/runestatus-sync/config.yaml",
	"/etc/runestatus-sync/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultEndpoint is the production sync endpoint.
const DefaultEndpoint = "https://api.runestatus.gg/plugin/sync"

// defaultConfig returns the values applied before the file and env layers.
func defaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			Enabled:                true,
			IntervalMinutes:        5,
			Skills:                 true,
			Quests:                 true,
			Diaries:                true,
			CombatAchievements:     true,
			Equipment:              true,
			CollectionLog:          true,
			ShowNotification:       false,
			WallclockCheckInterval: time.Minute,
		},
		Transport: TransportConfig{
			Endpoint:        DefaultEndpoint,
			UserAgent:       "RuneStatus-Sync/1.0",
			Timeout:         30 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  2 * time.Minute,
		},
		Host: HostConfig{
			BridgeURL:        "ws://127.0.0.1:7373/bridge",
			HandshakeTimeout: 10 * time.Second,
		},
		API: APIConfig{
			Enabled:             true,
			ListenAddr:          "127.0.0.1:7374",
			ManualRatePerMinute: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, then validates it. An empty path searches CONFIG_PATH and
// DefaultConfigPaths; a non-empty path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SYNC_INTERVAL_MINUTES -> sync.interval_minutes
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ResolvePath returns the config file Load would read for path, or "" if none.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile returns CONFIG_PATH if it exists, else the first existing
// entry of DefaultConfigPaths, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"sync_enabled":                  "sync.enabled",
	"sync_interval_minutes":         "sync.interval_minutes",
	"sync_skills":                   "sync.skills",
	"sync_quests":                   "sync.quests",
	"sync_diaries":                  "sync.diaries",
	"sync_combat_achievements":      "sync.combat_achievements",
	"sync_equipment":                "sync.equipment",
	"sync_collection_log":           "sync.collection_log",
	"sync_show_notification":        "sync.show_notification",
	"sync_wallclock_check_interval": "sync.wallclock_check_interval",

	"transport_endpoint":         "transport.endpoint",
	"transport_user_agent":       "transport.user_agent",
	"transport_timeout":          "transport.timeout",
	"transport_auth_header":      "transport.auth_header",
	"transport_auth_token":       "transport.auth_token",
	"transport_breaker_failures": "transport.breaker_failures",
	"transport_breaker_timeout":  "transport.breaker_timeout",

	"host_bridge_url":        "host.bridge_url",
	"host_handshake_timeout": "host.handshake_timeout",

	"api_enabled":                "api.enabled",
	"api_listen_addr":            "api.listen_addr",
	"api_manual_rate_per_minute": "api.manual_rate_per_minute",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unknown variables map to "" and are skipped.
//
// Examples:
//   - SYNC_INTERVAL_MINUTES -> sync.interval_minutes
//   - TRANSPORT_AUTH_TOKEN -> transport.auth_token
//   - HOST_BRIDGE_URL -> host.bridge_url
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes. The caller
// reloads and swaps configuration; see Store.Reload.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
