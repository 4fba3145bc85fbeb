package transport

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jasonbender-c3x/coedit/internal/logging"
)

// ErrClientGone is returned by Send once a client's outbound queue is
// closed or full. The registry logs and drops; the pumps tear the
// connection down.
var ErrClientGone = errors.New("client connection gone")

// client is one WebSocket connection. It satisfies session.Conn through
// Send, which enqueues onto the write pump without blocking session
// processing.
type client struct {
	server    *Server
	ws        *websocket.Conn
	logger    *logging.Logger
	sessionID string

	send      chan []byte
	closeOnce sync.Once

	// participantID is set by a successful join and read only from the
	// read pump goroutine.
	participantID string
}

func newClient(s *Server, ws *websocket.Conn, sessionID string) *client {
	return &client{
		server:    s,
		ws:        ws,
		logger:    s.logger.WithSession(sessionID),
		sessionID: sessionID,
		send:      make(chan []byte, sendBuffer),
	}
}

// Send queues one frame for the write pump. It never blocks: a full queue
// means the peer stopped draining, so the frame is dropped and the
// connection reported gone.
func (c *client) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientGone
	}
}

// joined reports whether this connection completed a join.
func (c *client) joined() bool { return c.participantID != "" }

// readPump reads envelopes until the connection dies, then runs the leave
// path. It is the connection's owning goroutine.
func (c *client) readPump() {
	defer c.teardown()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("connection read failed", "error", err)
			}
			return
		}
		c.server.dispatch(c, data)
	}
}

// writePump owns all writes to the socket, serializing outbound frames
// and keepalive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// teardown runs the implicit-leave path exactly once. A disconnecting
// turn holder releases the turn through the registry's leave handling.
func (c *client) teardown() {
	c.closeOnce.Do(func() {
		if c.joined() {
			if err := c.server.registry.Leave(c.sessionID, c.participantID); err != nil {
				c.logger.Warn("leave on disconnect failed",
					"participant_id", c.participantID, "error", err)
			}
		}
		close(c.send)
		c.logger.Debug("connection closed", "participant_id", c.participantID)
	})
}
