// Package presence tracks ephemeral cursor and selection state for the
// participants of one session.
//
// Cursor updates are advisory UI state: they carry no ordering guarantee
// relative to edits and are reconciled last-write-wins per (participant,
// file). The tracker holds only the latest position for each pair; stale
// updates that arrive out of order are dropped.
package presence

import (
	"sync"
	"time"
)

// Selection is an optional highlighted range attached to a cursor, as
// anchor/head coordinates.
type Selection struct {
	AnchorLine   int `json:"anchor_line"`
	AnchorColumn int `json:"anchor_column"`
	HeadLine     int `json:"head_line"`
	HeadColumn   int `json:"head_column"`
}

// Cursor is one participant's position in one file.
type Cursor struct {
	ParticipantID string     `json:"participant_id"`
	FilePath      string     `json:"file_path"`
	Line          int        `json:"line"`
	Column        int        `json:"column"`
	Selection     *Selection `json:"selection,omitempty"`

	// UpdatedAt orders competing updates for the same (participant, file);
	// the later timestamp wins.
	UpdatedAt time.Time `json:"updated_at"`
}

type cursorKey struct {
	participantID string
	filePath      string
}

// Tracker is the last-write-wins cursor store for a single session.
// Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	cursors map[cursorKey]Cursor
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{cursors: make(map[cursorKey]Cursor)}
}

// Update records a cursor position, returning true if it was applied. An
// update older than the stored one for the same (participant, file) is
// dropped. A zero UpdatedAt is stamped with the current time.
func (t *Tracker) Update(c Cursor) bool {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := cursorKey{c.ParticipantID, c.FilePath}
	if prev, ok := t.cursors[key]; ok && c.UpdatedAt.Before(prev.UpdatedAt) {
		return false
	}
	t.cursors[key] = c
	return true
}

// Get returns the stored cursor for a (participant, file) pair.
func (t *Tracker) Get(participantID, filePath string) (Cursor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.cursors[cursorKey{participantID, filePath}]
	return c, ok
}

// Snapshot returns all stored cursors, for inclusion in join payloads.
func (t *Tracker) Snapshot() []Cursor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Cursor, 0, len(t.cursors))
	for _, c := range t.cursors {
		out = append(out, c)
	}
	return out
}

// Drop removes all cursors belonging to a participant, on leave.
func (t *Tracker) Drop(participantID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.cursors {
		if key.participantID == participantID {
			delete(t.cursors, key)
		}
	}
}

// DropFile removes one participant's cursor in one file, on file close.
func (t *Tracker) DropFile(participantID, filePath string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cursors, cursorKey{participantID, filePath})
}

// Len returns the number of tracked cursors.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cursors)
}
