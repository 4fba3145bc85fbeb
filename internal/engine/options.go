package engine

import (
	"github.com/jasonbender-c3x/coedit/internal/event"
	"github.com/jasonbender-c3x/coedit/internal/store"
)

// hubConfig holds optional configuration for a Hub.
type hubConfig struct {
	bus   *event.Bus
	store store.Store
}

// Option configures a Hub.
type Option func(*hubConfig)

// WithBus sets the event bus shared by all components. If nil, a new bus
// is created.
func WithBus(b *event.Bus) Option {
	return func(c *hubConfig) { c.bus = b }
}

// WithStore overrides the configured persistence driver with an explicit
// store. Tests use this to inject a pre-seeded in-memory store.
func WithStore(s store.Store) Option {
	return func(c *hubConfig) { c.store = s }
}
