// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/runestatus-sync/internal/dispatch"
	"github.com/tomtom215/runestatus-sync/internal/logging"
)

// Lifecycle is the agent's Start/Stop pair. Both must run on the dispatch
// loop.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop()
}

// LoopRunner runs a closure on the dispatch loop and waits for it.
type LoopRunner interface {
	Do(ctx context.Context, fn func()) error
}

// AgentService adapts the agent to suture.Service:
//  1. Start runs on the loop, subscribing the agent to host events
//  2. Serve blocks until ctx is canceled
//  3. Stop runs on the loop, bounded by stopTimeout
type AgentService struct {
	agent       Lifecycle
	loop        LoopRunner
	stopTimeout time.Duration
	name        string
}

// NewAgentService creates the wrapper.
func NewAgentService(agent Lifecycle, loop LoopRunner, stopTimeout time.Duration) *AgentService {
	if stopTimeout <= 0 {
		stopTimeout = 5 * time.Second
	}
	return &AgentService{
		agent:       agent,
		loop:        loop,
		stopTimeout: stopTimeout,
		name:        "sync-agent",
	}
}

// Serve implements suture.Service.
func (s *AgentService) Serve(ctx context.Context) error {
	var startErr error
	if err := s.loop.Do(ctx, func() { startErr = s.agent.Start(ctx) }); err != nil {
		return fmt.Errorf("sync agent start did not run: %w", err)
	}
	if startErr != nil {
		return fmt.Errorf("sync agent start failed: %w", startErr)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), s.stopTimeout)
	defer cancel()
	err := s.loop.Do(stopCtx, s.agent.Stop)
	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrLoopStopped):
		// Nothing else can run on a stopped loop, so stopping inline is safe.
		s.agent.Stop()
	default:
		logging.Warn().Err(err).Msg("Sync agent stop did not complete")
	}
	return ctx.Err()
}

func (s *AgentService) String() string {
	return s.name
}
