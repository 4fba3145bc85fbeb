package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/jasonbender-c3x/coedit/internal/config"
	"github.com/jasonbender-c3x/coedit/internal/event"
	"github.com/jasonbender-c3x/coedit/internal/logging"
	"github.com/jasonbender-c3x/coedit/internal/session"
	"github.com/jasonbender-c3x/coedit/internal/store"
	"github.com/jasonbender-c3x/coedit/internal/transport"
)

// connectTimeout bounds backend dial attempts during hub construction.
const connectTimeout = 10 * time.Second

// shutdownTimeout bounds the HTTP server drain during Stop.
const shutdownTimeout = 5 * time.Second

// Config holds required dependencies for creating a Hub.
type Config struct {
	Cfg    *config.Config
	Logger *logging.Logger
}

// Hub wires all coedit components together. It owns the lifecycle of the
// async writer, the session registry maintenance loop, and the listener.
type Hub struct {
	mu      sync.RWMutex
	started bool
	cancel  context.CancelFunc

	// serveDone is closed when the listener goroutine exits.
	serveDone chan struct{}

	errMu    sync.Mutex
	serveErr error

	cfg    *config.Config
	logger *logging.Logger

	// Components
	bus      *event.Bus
	st       store.Store
	writer   *store.Writer
	registry *session.Registry
	server   *transport.Server
}

// NewHub creates a Hub from a validated configuration, connecting to the
// configured backends.
func NewHub(cfg Config, opts ...Option) (*Hub, error) {
	if cfg.Cfg == nil {
		return nil, errors.New("engine: Cfg is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	hc := &hubConfig{}
	for _, opt := range opts {
		opt(hc)
	}

	bus := hc.bus
	if bus == nil {
		bus = event.NewBus()
	}

	// Audit trail: every lifecycle event lands in the log.
	auditLog := cfg.Logger.WithComponent("audit")
	bus.SubscribeAll(func(ev event.Event) {
		auditLog.Debug(ev.EventType(), "event", ev)
	})

	st, err := openStore(cfg.Cfg, hc)
	if err != nil {
		return nil, err
	}

	writer := store.NewWriter(st, cfg.Logger, bus, cfg.Cfg.Store.QueueSize)

	registryOpts := []session.Option{
		session.WithHistoryLimit(cfg.Cfg.Session.HistoryLimit),
		session.WithLookupTimeout(cfg.Cfg.Session.LookupTimeout()),
		session.WithMaintenanceInterval(cfg.Cfg.Session.MaintenanceInterval()),
		session.WithResyncPolicy(session.ResyncPolicy(cfg.Cfg.Session.ResyncPolicy)),
		session.WithPathPatterns(cfg.Cfg.Files.Allow),
	}
	if d := cfg.Cfg.Turn.IdleTimeout(); d > 0 {
		registryOpts = append(registryOpts, session.WithTurnIdleTimeout(d))
	}
	registry, err := session.NewRegistry(session.Config{
		Store:  st,
		Writer: writer,
		Bus:    bus,
		Logger: cfg.Logger,
	}, registryOpts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	var serverOpts []transport.ServerOption
	if origins := cfg.Cfg.Server.AllowedOrigins; len(origins) > 0 {
		serverOpts = append(serverOpts, transport.WithCheckOrigin(originChecker(origins)))
	}
	server := transport.NewServer(registry, cfg.Logger, serverOpts...)

	return &Hub{
		cfg:      cfg.Cfg,
		logger:   cfg.Logger.WithComponent("engine"),
		bus:      bus,
		st:       st,
		writer:   writer,
		registry: registry,
		server:   server,
	}, nil
}

// openStore builds the persistence collaborator selected by the config:
// the in-memory store or postgres, optionally wrapped by the Redis cursor
// cache.
func openStore(cfg *config.Config, hc *hubConfig) (store.Store, error) {
	st := hc.store
	if st == nil {
		switch cfg.Store.Driver {
		case "postgres":
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			pg, err := store.NewPostgres(ctx, cfg.Store.PostgresURL)
			if err != nil {
				return nil, fmt.Errorf("engine: connect postgres: %w", err)
			}
			if err := pg.Migrate(ctx); err != nil {
				_ = pg.Close()
				return nil, fmt.Errorf("engine: migrate: %w", err)
			}
			st = pg
		default:
			st = store.NewMemory()
		}
	}

	if cfg.Store.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		cache, err := store.NewCursorCache(ctx, st, cfg.Store.RedisAddr)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("engine: connect redis: %w", err)
		}
		st = cache
	}
	return st, nil
}

// originChecker restricts WebSocket upgrades to the listed origin hosts.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Host) || slices.Contains(allowed, u.Hostname())
	}
}

// Bus returns the event bus shared by all components.
func (h *Hub) Bus() *event.Bus { return h.bus }

// Store returns the persistence collaborator.
func (h *Hub) Store() store.Store { return h.st }

// Registry returns the session registry.
func (h *Hub) Registry() *session.Registry { return h.registry }

// Server returns the WebSocket transport server.
func (h *Hub) Server() *transport.Server { return h.server }

// Start begins the writer, the registry maintenance loop, and the
// listener. Returns an error if the hub is already started.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return errors.New("engine: hub already started")
	}

	// Bind before anything else runs. With the listener in place,
	// Stop's Shutdown works no matter when the serve goroutine is
	// scheduled, and bind failures surface here instead of ServeErr.
	if err := h.server.Listen(h.cfg.Server.Addr); err != nil {
		return fmt.Errorf("engine: listen: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.started = true
	h.serveDone = make(chan struct{})

	h.writer.Start()
	h.registry.Start(ctx)

	go func() {
		defer close(h.serveDone)
		if err := h.server.Serve(); err != nil {
			h.logger.Error("listener failed", "error", err)
			h.errMu.Lock()
			h.serveErr = err
			h.errMu.Unlock()
		}
	}()

	return nil
}

// Stop stops all components in reverse order. It is idempotent.
func (h *Hub) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Warn("listener shutdown", "error", err)
	}
	<-h.serveDone

	h.cancel()
	h.registry.Stop()
	h.writer.Stop()
	if err := h.st.Close(); err != nil {
		h.logger.Warn("store close", "error", err)
	}

	h.started = false
	return nil
}

// ServeErr returns the listener error, if the listener has failed.
func (h *Hub) ServeErr() error {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	return h.serveErr
}

// Running returns whether the hub is currently started.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}
