// Package transport exposes the coordination engine over WebSocket. It
// owns connection lifecycle only: upgrading, read/write pumps, and
// translating wire envelopes into registry calls. All session semantics
// live behind the registry.
package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/jasonbender-c3x/coedit/internal/logging"
	"github.com/jasonbender-c3x/coedit/internal/session"
)

const (
	// writeWait bounds a single frame write to a client.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may go silent before the read
	// pump gives up on it.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait so pings keep healthy
	// connections alive.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames. Operations carry inserted text,
	// so this is generous compared to typical control traffic.
	maxMessageSize = 1 << 20

	// sendBuffer is the per-client outbound queue. A client that cannot
	// drain this many frames is considered dead.
	sendBuffer = 256
)

// Server terminates WebSocket connections and feeds the registry.
type Server struct {
	registry *session.Registry
	logger   *logging.Logger
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	ln       net.Listener
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCheckOrigin overrides the upgrade origin check. The default accepts
// all origins; deployments behind a proxy should restrict it.
func WithCheckOrigin(check func(r *http.Request) bool) ServerOption {
	return func(s *Server) { s.upgrader.CheckOrigin = check }
}

// NewServer creates a Server around a registry.
func NewServer(registry *session.Registry, logger *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		registry: registry,
		logger:   logger.WithComponent("transport"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP routes: the WebSocket endpoint and a liveness
// probe.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws/{session}", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Listen binds addr and prepares the HTTP server. It must be called
// before Serve. Splitting bind from serve keeps Shutdown well-defined
// even when Serve has not been scheduled yet.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.httpSrv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Serve blocks accepting connections on the listener bound by Listen,
// until Shutdown or a listener error. http.ErrServerClosed is swallowed
// as the normal shutdown outcome.
func (s *Server) Serve() error {
	if s.ln == nil {
		return errors.New("transport: Serve called before Listen")
	}
	err := s.httpSrv.Serve(s.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the bound listen address, or "" before Listen.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops accepting connections and drains in-flight requests.
// Live WebSockets are closed by their pumps as the listener goes away.
// Safe to call after Listen whether or not Serve has started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleWS upgrades the connection and runs it. The path's session id is
// the only session this connection may join; join envelopes naming a
// different id are rejected in dispatch.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session"]
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			"session_id", sessionID, "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(s, ws, sessionID)
	s.logger.Debug("connection opened",
		"session_id", sessionID, "remote", remoteAddr(ws))
	go c.writePump()
	c.readPump()
}

func remoteAddr(ws *websocket.Conn) string {
	if addr := ws.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
