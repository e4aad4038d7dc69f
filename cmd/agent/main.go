// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tomtom215/runestatus-sync/internal/api"
	"github.com/tomtom215/runestatus-sync/internal/config"
	"github.com/tomtom215/runestatus-sync/internal/dispatch"
	"github.com/tomtom215/runestatus-sync/internal/host"
	"github.com/tomtom215/runestatus-sync/internal/hostbridge"
	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/supervisor"
	"github.com/tomtom215/runestatus-sync/internal/supervisor/services"
	syncagent "github.com/tomtom215/runestatus-sync/internal/sync"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logging.Fatal().Err(err).Msg("RuneStatus sync agent failed")
	}
}

func run(args []string) error {
	var configPath, logLevel string
	flagSet := pflag.NewFlagSet("runestatus-sync", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the YAML config file (default: CONFIG_PATH or ./config.yaml)")
	flagSet.StringVar(&logLevel, "log-level", "", "override the configured log level")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}
		cfg.Logging.Level = logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("bridge_url", logging.RedactURL(cfg.Host.BridgeURL)).
		Str("endpoint", logging.RedactURL(cfg.Transport.Endpoint)).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Int("interval_minutes", cfg.Sync.IntervalMinutes).
		Bool("api_enabled", cfg.API.Enabled).
		Msg("Starting RuneStatus sync agent")
	if cfg.Transport.AuthHeader != "" {
		logging.Info().
			Str("header", cfg.Transport.AuthHeader).
			Str("token", logging.RedactToken(cfg.Transport.AuthToken)).
			Msg("Transport authentication header configured")
	}

	store := config.NewStore(cfg.Sync, configPath)
	if err := store.Watch(); err != nil {
		logging.Warn().Err(err).Msg("Config file watch unavailable, settings will not reload")
	}

	loop := dispatch.NewLoop()
	bus := host.NewBus()

	client := hostbridge.NewClient(cfg.Host.BridgeURL, cfg.Host.HandshakeTimeout, nil)
	mirror := hostbridge.NewMirror(client)
	client.SetHandler(hostbridge.NewBridge(mirror, bus, loop))

	transport := syncagent.NewBreakerTransport(syncagent.NewHTTPTransport(cfg.Transport), cfg.Transport)

	agent := syncagent.NewAgent(syncagent.AgentDeps{
		Host:      mirror,
		Bus:       bus,
		Poster:    loop,
		Settings:  store,
		Transport: transport,
		Now:       time.Now,
	})

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	tree.AddHostService(loop)
	tree.AddHostService(client)

	tree.AddSyncService(services.NewAgentService(agent, loop, cfg.Supervisor.ShutdownTimeout))
	tree.AddSyncService(dispatch.NewScheduler("wallclock-scheduler", cfg.Sync.WallclockCheckInterval, loop, agent.WallclockCheck))

	if cfg.API.Enabled {
		server := &http.Server{
			Addr:              cfg.API.ListenAddr,
			Handler:           api.NewRouter(api.NewHandler(agent, loop, client), cfg.API).SetupChi(),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))
		logging.Info().Str("addr", server.Addr).Msg("Local API enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, stopping services")
		serveErr = <-errCh
	case serveErr = <-errCh:
		stop()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("RuneStatus sync agent stopped")
	return nil
}
