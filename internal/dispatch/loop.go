// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/runestatus-sync/internal/logging"
	"github.com/tomtom215/runestatus-sync/internal/metrics"
)

// ErrLoopStopped is returned by Do when the loop exits before running fn.
var ErrLoopStopped = errors.New("dispatch loop stopped")

// Loop runs posted closures sequentially on a single goroutine.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	stopped chan struct{}
	serving atomic.Bool
	name    string
}

// NewLoop creates a loop. It does nothing until Serve is called.
func NewLoop() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		name:    "dispatch-loop",
	}
}

// Post enqueues fn. It never blocks and is safe from any goroutine,
// including the loop itself.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	depth := len(l.pending)
	l.mu.Unlock()

	metrics.DispatchQueueDepth.Set(float64(depth))

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do posts fn and waits until it has run, ctx is done, or the loop stops.
// It must not be called from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()

	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Serve runs the loop until ctx is canceled. Implements suture.Service.
// A loop may be served again after it returns; pending closures survive.
func (l *Loop) Serve(ctx context.Context) error {
	if !l.serving.CompareAndSwap(false, true) {
		return fmt.Errorf("%s is already running", l.name)
	}
	defer l.serving.Store(false)

	l.mu.Lock()
	select {
	case <-l.stopped:
		l.stopped = make(chan struct{})
	default:
	}
	stopped := l.stopped
	backlog := len(l.pending)
	l.mu.Unlock()
	defer close(stopped)

	if backlog > 0 {
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}

	logging.Debug().Str("service", l.name).Msg("Dispatch loop started")

	for {
		select {
		case <-ctx.Done():
			logging.Debug().Str("service", l.name).Msg("Dispatch loop stopping")
			return ctx.Err()
		case <-l.wake:
			l.drain(ctx)
		}
	}
}

// drain runs everything queued so far. Closures posted while draining are
// picked up by the next wake signal.
func (l *Loop) drain(ctx context.Context) {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	metrics.DispatchQueueDepth.Set(0)

	for i, fn := range batch {
		if ctx.Err() != nil {
			l.requeue(batch[i:])
			return
		}
		run(fn)
	}
}

func (l *Loop) requeue(rest []func()) {
	l.mu.Lock()
	l.pending = append(rest, l.pending...)
	depth := len(l.pending)
	l.mu.Unlock()
	metrics.DispatchQueueDepth.Set(float64(depth))
}

// run executes fn inside a recover boundary. A panicking handler is logged
// and counted; the loop keeps going.
func run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanics.Inc()
			logging.Error().Interface("panic", r).Msg("Recovered panic on dispatch loop")
		}
	}()
	fn()
}

// Pending reports how many closures are waiting.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// String implements fmt.Stringer for suture.
func (l *Loop) String() string {
	return l.name
}
