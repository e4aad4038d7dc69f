// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/runestatus-sync/internal/dispatch"
)

type mockAgent struct {
	mu       sync.Mutex
	startErr error
	starts   int
	stops    int
	onLoop   []bool
	loopFlag *bool
}

func (a *mockAgent) Start(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts++
	a.onLoop = append(a.onLoop, a.loopFlag != nil && *a.loopFlag)
	return a.startErr
}

func (a *mockAgent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stops++
	a.onLoop = append(a.onLoop, a.loopFlag != nil && *a.loopFlag)
}

func (a *mockAgent) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.starts, a.stops
}

// flagLoop runs closures inline with inLoop set, like a dispatch loop would.
type flagLoop struct {
	inLoop bool
	err    error
}

func (l *flagLoop) Do(_ context.Context, fn func()) error {
	if l.err != nil {
		return l.err
	}
	l.inLoop = true
	fn()
	l.inLoop = false
	return nil
}

var _ suture.Service = (*AgentService)(nil)

func TestAgentService_StartAndStopOnLoop(t *testing.T) {
	loop := &flagLoop{}
	agent := &mockAgent{loopFlag: &loop.inLoop}
	svc := NewAgentService(agent, loop, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for {
		if starts, _ := agent.counts(); starts == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("agent was not started")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if starts, stops := agent.counts(); starts != 1 || stops != 1 {
		t.Errorf("starts=%d stops=%d, want 1/1", starts, stops)
	}
	for i, on := range agent.onLoop {
		if !on {
			t.Errorf("lifecycle call %d ran off the loop", i)
		}
	}
}

func TestAgentService_StartFailure(t *testing.T) {
	startErr := errors.New("already running")
	agent := &mockAgent{startErr: startErr}
	svc := NewAgentService(agent, &flagLoop{}, time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, startErr) {
		t.Errorf("Serve() = %v, want %v", err, startErr)
	}
	if _, stops := agent.counts(); stops != 0 {
		t.Errorf("Stop called after failed start")
	}
}

func TestAgentService_StopsInlineWhenLoopIsGone(t *testing.T) {
	loop := &flagLoop{}
	agent := &mockAgent{}
	svc := NewAgentService(agent, loop, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for {
		if starts, _ := agent.counts(); starts == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("agent was not started")
		}
		time.Sleep(time.Millisecond)
	}

	loop.err = dispatch.ErrLoopStopped
	cancel()
	<-errCh

	if _, stops := agent.counts(); stops != 1 {
		t.Errorf("stops = %d, want 1", stops)
	}
}

func TestAgentService_WithRealLoop(t *testing.T) {
	loop := dispatch.NewLoop()
	agent := &mockAgent{}

	sup := suture.New("test", suture.Spec{Timeout: 2 * time.Second})
	sup.Add(loop)
	sup.Add(NewAgentService(agent, loop, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if starts, _ := agent.counts(); starts == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("agent was not started through the loop")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	<-errCh
	if _, stops := agent.counts(); stops != 1 {
		t.Errorf("stops = %d, want 1", stops)
	}
}
