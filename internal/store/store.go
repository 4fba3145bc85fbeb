// Package store defines the persistence collaborator for the coordination
// engine: a durable, append-only record of sessions, participants, cursors,
// and accepted operations.
//
// The engine treats the store as best-effort on every path except the
// session-existence lookup during join, which is synchronous and bounded by
// a timeout. Everything else flows through [Writer], a background queue
// that never blocks a session's processing loop: an accepted edit is
// broadcast and acknowledged before its durability write completes, and a
// failed write is logged and surfaced on the event bus, never rolled back.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by FindSession for an unknown session id.
var ErrNotFound = errors.New("session not found")

// SessionRecord is the durable registration of a collaboration. Sessions
// are pre-registered (by the surrounding application or `coeditd serve
// --seed`); joining never creates one.
type SessionRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ParticipantRecord is the durable membership row for one participant.
type ParticipantRecord struct {
	ID          string
	SessionID   string
	DisplayName string
	AvatarColor string
	Role        string
	Active      bool
	JoinedAt    time.Time
}

// CursorRecord is the durable last-known cursor per (session, participant,
// file). Upserts overwrite; there is no cursor history.
type CursorRecord struct {
	SessionID     string
	ParticipantID string
	FilePath      string
	Line          int
	Column        int
	UpdatedAt     time.Time
}

// OperationRecord is one accepted operation in the append-only edit log.
// Version is the file version the operation produced.
type OperationRecord struct {
	ID            string
	SessionID     string
	ParticipantID string
	FilePath      string
	Kind          string
	Position      int
	Length        int
	Text          string
	BaseVersion   int64
	Version       int64
	AppliedAt     time.Time
}

// TurnEventRecord is one entry of a session's turn audit log, flushed in
// bulk on session teardown.
type TurnEventRecord struct {
	SessionID     string
	ParticipantID string
	Action        string
	At            time.Time
}

// Store is the persistence collaborator contract. Implementations must be
// safe for concurrent use; the engine calls them from the background writer
// and, for FindSession, from join handling.
type Store interface {
	// FindSession looks up a pre-registered session. Returns ErrNotFound
	// for unknown ids. This is the only synchronous call on the join path;
	// callers bound it with a context timeout.
	FindSession(ctx context.Context, id string) (SessionRecord, error)

	// CreateSession registers a new session. Used by seeding and tests;
	// the engine itself never creates sessions.
	CreateSession(ctx context.Context, rec SessionRecord) error

	// InsertParticipant records a participant joining a session.
	InsertParticipant(ctx context.Context, rec ParticipantRecord) error

	// MarkParticipantInactive flips a participant's active flag on leave.
	// The row is kept; membership history is part of the audit trail.
	MarkParticipantInactive(ctx context.Context, participantID string) error

	// UpsertCursor stores the latest cursor for (session, participant, file).
	UpsertCursor(ctx context.Context, rec CursorRecord) error

	// InsertOperation appends an accepted operation to the edit log.
	InsertOperation(ctx context.Context, rec OperationRecord) error

	// InsertTurnEvents appends a batch of turn audit entries.
	InsertTurnEvents(ctx context.Context, sessionID string, events []TurnEventRecord) error

	// Close releases the store's resources.
	Close() error
}
