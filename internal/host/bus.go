// RuneStatus Sync - Player Telemetry Synchronization Agent
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runestatus-sync

package host

// Subscription is a registration handle. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() { f() }

type handler struct {
	id uint64
	fn func(Event)
}

// Bus is an in-process, synchronous event bus. It is owned by the dispatch
// loop and is not safe for concurrent use.
type Bus struct {
	nextID   uint64
	handlers map[EventKind][]handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventKind][]handler)}
}

// Publish delivers e to every handler subscribed to its kind, in
// subscription order. Handlers registered during delivery see the next event.
func (b *Bus) Publish(e Event) {
	hs := b.handlers[e.Kind()]
	for _, h := range hs {
		h.fn(e)
	}
}

// Subscribe registers fn for events of type E.
func Subscribe[E Event](b *Bus, fn func(E)) Subscription {
	var zero E
	kind := zero.Kind()

	b.nextID++
	id := b.nextID

	// Copy-on-write so a Publish in progress keeps iterating its own slice.
	hs := append(append([]handler(nil), b.handlers[kind]...), handler{
		id: id,
		fn: func(e Event) {
			if typed, ok := e.(E); ok {
				fn(typed)
			}
		},
	})
	b.handlers[kind] = hs

	done := false
	return SubscriptionFunc(func() {
		if done {
			return
		}
		done = true
		b.remove(kind, id)
	})
}

func (b *Bus) remove(kind EventKind, id uint64) {
	current := b.handlers[kind]
	next := make([]handler, 0, len(current))
	for _, h := range current {
		if h.id != id {
			next = append(next, h)
		}
	}
	if len(next) == 0 {
		delete(b.handlers, kind)
		return
	}
	b.handlers[kind] = next
}

// HandlerCount reports how many handlers are registered for kind.
func (b *Bus) HandlerCount(kind EventKind) int {
	return len(b.handlers[kind])
}

// Subscriptions releases a group of handles together.
type Subscriptions []Subscription

// Add appends s.
func (s *Subscriptions) Add(sub Subscription) {
	*s = append(*s, sub)
}

// Unsubscribe releases every handle in reverse registration order.
func (s *Subscriptions) Unsubscribe() {
	for i := len(*s) - 1; i >= 0; i-- {
		(*s)[i].Unsubscribe()
	}
	*s = nil
}
