// Package testutil provides shared test doubles for coedit tests.
package testutil

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

// FakeConn records every frame sent to a participant. It satisfies the
// session Conn interface and is safe for concurrent use.
type FakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	failed bool
}

// NewFakeConn returns an empty FakeConn.
func NewFakeConn() *FakeConn {
	return &FakeConn{}
}

// Send records a frame, or fails if Fail was called.
func (c *FakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return errors.New("connection closed")
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	c.frames = append(c.frames, frame)
	return nil
}

// Fail makes all subsequent Sends return an error.
func (c *FakeConn) Fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = true
}

// Frames returns a copy of all recorded frames.
func (c *FakeConn) Frames() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	copy(out, c.frames)
	return out
}

// Len returns the number of recorded frames.
func (c *FakeConn) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// Reset discards all recorded frames.
func (c *FakeConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// Types returns the type tag of every recorded frame, in order.
func (c *FakeConn) Types(t *testing.T) []string {
	t.Helper()
	frames := c.Frames()
	types := make([]string, len(frames))
	for i, frame := range frames {
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(frame, &envelope); err != nil {
			t.Fatalf("frame %d is not valid JSON: %v", i, err)
		}
		types[i] = envelope.Type
	}
	return types
}

// Last unmarshals the most recent frame into v and returns its type tag.
func (c *FakeConn) Last(t *testing.T, v any) string {
	t.Helper()
	frames := c.Frames()
	if len(frames) == 0 {
		t.Fatal("no frames recorded")
	}
	return decodeFrame(t, frames[len(frames)-1], v)
}

// LastOfType finds the most recent frame with the given type tag and
// unmarshals it into v. Fails the test when no such frame exists.
func (c *FakeConn) LastOfType(t *testing.T, typ string, v any) {
	t.Helper()
	frames := c.Frames()
	for i := len(frames) - 1; i >= 0; i-- {
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(frames[i], &envelope); err != nil {
			t.Fatalf("frame %d is not valid JSON: %v", i, err)
		}
		if envelope.Type == typ {
			decodeFrame(t, frames[i], v)
			return
		}
	}
	t.Fatalf("no frame of type %q recorded (got %v)", typ, c.Types(t))
}

func decodeFrame(t *testing.T, frame []byte, v any) string {
	t.Helper()
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	if v != nil {
		if err := json.Unmarshal(frame, v); err != nil {
			t.Fatalf("unmarshal %q frame: %v", envelope.Type, err)
		}
	}
	return envelope.Type
}
