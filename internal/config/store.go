// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package config

import (
	"sync/atomic"

	"github.com/tomtom215/runestatus-sync/internal/logging"
)

// Store holds the live SyncConfig. Readers never block; Reload swaps the
// whole value.
type Store struct {
	current atomic.Pointer[SyncConfig]
	path    string
}

// NewStore creates a Store seeded with cfg. path is the file Reload re-reads;
// "" uses discovery.
func NewStore(cfg SyncConfig, path string) *Store {
	s := &Store{path: path}
	s.current.Store(&cfg)
	return s
}

// Sync returns a copy of the current sync settings.
func (s *Store) Sync() SyncConfig {
	return *s.current.Load()
}

// Set replaces the current sync settings.
func (s *Store) Set(cfg SyncConfig) {
	s.current.Store(&cfg)
}

// Reload re-reads the configuration, swaps the sync section and applies the
// log level. On error the previous settings stay in effect.
func (s *Store) Reload() error {
	cfg, err := Load(s.path)
	if err != nil {
		logging.Warn().Err(err).Msg("Config reload failed, keeping previous settings")
		return err
	}
	prev := s.Sync()
	s.Set(cfg.Sync)
	logging.SetLevelString(cfg.Logging.Level)
	logging.Info().
		Bool("enabled", cfg.Sync.Enabled).
		Int("interval_minutes", cfg.Sync.IntervalMinutes).
		Bool("interval_changed", prev.IntervalMinutes != cfg.Sync.IntervalMinutes).
		Msg("Sync configuration reloaded")
	return nil
}

// Watch reloads the store whenever its config file changes. It is a no-op
// when there is no config file.
func (s *Store) Watch() error {
	path := ResolvePath(s.path)
	if path == "" {
		return nil
	}
	return WatchConfigFile(path, func() {
		_ = s.Reload() //nolint:errcheck // logged in Reload
	})
}
