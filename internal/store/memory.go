package store

import (
	"context"
	"fmt"
	"sync"
)

type cursorID struct {
	sessionID     string
	participantID string
	filePath      string
}

// Memory is an in-process Store for tests and for running the server
// without a database (`store.driver: memory`). Durability ends with the
// process; everything else matches the contract.
type Memory struct {
	mu           sync.RWMutex
	sessions     map[string]SessionRecord
	participants map[string]ParticipantRecord
	cursors      map[cursorID]CursorRecord
	operations   []OperationRecord
	turnEvents   []TurnEventRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions:     make(map[string]SessionRecord),
		participants: make(map[string]ParticipantRecord),
		cursors:      make(map[cursorID]CursorRecord),
	}
}

// FindSession implements Store.
func (m *Memory) FindSession(ctx context.Context, id string) (SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return SessionRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[id]
	if !ok {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// CreateSession implements Store.
func (m *Memory) CreateSession(ctx context.Context, rec SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[rec.ID]; ok {
		return fmt.Errorf("session %s already exists", rec.ID)
	}
	m.sessions[rec.ID] = rec
	return nil
}

// InsertParticipant implements Store.
func (m *Memory) InsertParticipant(ctx context.Context, rec ParticipantRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants[rec.ID] = rec
	return nil
}

// MarkParticipantInactive implements Store.
func (m *Memory) MarkParticipantInactive(ctx context.Context, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.participants[participantID]
	if !ok {
		return fmt.Errorf("participant %s not found", participantID)
	}
	rec.Active = false
	m.participants[participantID] = rec
	return nil
}

// UpsertCursor implements Store.
func (m *Memory) UpsertCursor(ctx context.Context, rec CursorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[cursorID{rec.SessionID, rec.ParticipantID, rec.FilePath}] = rec
	return nil
}

// InsertOperation implements Store.
func (m *Memory) InsertOperation(ctx context.Context, rec OperationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, rec)
	return nil
}

// InsertTurnEvents implements Store.
func (m *Memory) InsertTurnEvents(ctx context.Context, sessionID string, events []TurnEventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnEvents = append(m.turnEvents, events...)
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// Participant returns a stored participant row, for test assertions.
func (m *Memory) Participant(participantID string) (ParticipantRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.participants[participantID]
	return rec, ok
}

// Operations returns a copy of the operation log for one session.
func (m *Memory) Operations(sessionID string) []OperationRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []OperationRecord
	for _, rec := range m.operations {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out
}

// Cursor returns the stored cursor row for a (session, participant, file).
func (m *Memory) Cursor(sessionID, participantID, filePath string) (CursorRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.cursors[cursorID{sessionID, participantID, filePath}]
	return rec, ok
}

// TurnEvents returns a copy of the turn audit log for one session.
func (m *Memory) TurnEvents(sessionID string) []TurnEventRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []TurnEventRecord
	for _, rec := range m.turnEvents {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out
}

var _ Store = (*Memory)(nil)
