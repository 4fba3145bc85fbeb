package tui

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// dialTimeout bounds the initial connection attempt.
const dialTimeout = 10 * time.Second

// client is the monitor's read-only connection: it joins as a guest and
// forwards every server frame into the Bubbletea update loop.
type client struct {
	ws     *websocket.Conn
	frames chan tea.Msg
}

// dialMonitor connects to addr (host:port) and joins the session as a
// guest observer.
func dialMonitor(addr, sessionID string) (*client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	url := fmt.Sprintf("ws://%s/ws/%s", addr, sessionID)
	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	join := map[string]any{
		"type":         "join",
		"role":         "guest",
		"display_name": "monitor",
	}
	if err := ws.WriteJSON(join); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("send join: %w", err)
	}

	c := &client{ws: ws, frames: make(chan tea.Msg, 64)}
	go c.readLoop()
	return c, nil
}

// readLoop forwards frames until the connection dies, translating the
// join acknowledgement into connectedMsg.
func (c *client) readLoop() {
	defer close(c.frames)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.frames <- disconnectedMsg{err: err}
			return
		}

		var head struct {
			Type     string `json:"type"`
			Snapshot struct {
				Self struct {
					ID string `json:"id"`
				} `json:"self"`
			} `json:"snapshot"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			continue
		}
		if head.Type == "joined" {
			c.frames <- connectedMsg{participantID: head.Snapshot.Self.ID}
		}
		c.frames <- frameMsg{data: data}
	}
}

// next returns a command that waits for the next frame.
func (c *client) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.frames
		if !ok {
			return disconnectedMsg{}
		}
		return msg
	}
}

// close tears the connection down.
func (c *client) close() {
	if c.ws == nil {
		return
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = c.ws.Close()
}
