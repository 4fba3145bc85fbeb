package event

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Handler receives a published event. Handlers run synchronously on the
// publishing goroutine, so they must not block on session work.
type Handler func(Event)

// Bus is a synchronous in-process pub/sub bus. The registry publishes
// lifecycle events through it; audit logging and monitoring subscribe
// without the registry knowing about either.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[string][]busEntry // event type -> handlers, "*" for all
}

type busEntry struct {
	token uint64
	fn    Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]busEntry)}
}

// Subscribe registers fn for one event type and returns a token for
// Unsubscribe.
func (b *Bus) Subscribe(eventType string, fn Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.handlers[eventType] = append(b.handlers[eventType], busEntry{token: b.next, fn: fn})
	return b.next
}

// SubscribeAll registers fn for every event type.
func (b *Bus) SubscribeAll(fn Handler) uint64 {
	return b.Subscribe("*", fn)
}

// Unsubscribe removes the handler registered under token. It reports
// whether the token was still registered.
func (b *Bus) Unsubscribe(token uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, entries := range b.handlers {
		for i, e := range entries {
			if e.token == token {
				b.handlers[eventType] = append(entries[:i:i], entries[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish delivers ev to handlers subscribed to its type, then to
// wildcard handlers, each group in registration order. A panicking
// handler is recovered and logged so it cannot starve the rest.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	typed := append([]busEntry(nil), b.handlers[ev.EventType()]...)
	wild := append([]busEntry(nil), b.handlers["*"]...)
	b.mu.RUnlock()

	for _, e := range typed {
		b.deliver(e.fn, ev)
	}
	for _, e := range wild {
		b.deliver(e.fn, ev)
	}
}

func (b *Bus) deliver(fn Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked",
				"event_type", ev.EventType(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn(ev)
}

// Clear drops every subscription.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]busEntry)
}

// SubscriptionCount returns the number of registered handlers.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, entries := range b.handlers {
		n += len(entries)
	}
	return n
}
