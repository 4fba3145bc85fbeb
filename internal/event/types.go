package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "session.created", "turn.granted").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Session Lifecycle Events
// -----------------------------------------------------------------------------

// SessionCreatedEvent is emitted when the first participant joins a session
// and its in-memory state is built.
type SessionCreatedEvent struct {
	baseEvent
	SessionID string
}

// NewSessionCreatedEvent creates a SessionCreatedEvent.
func NewSessionCreatedEvent(sessionID string) SessionCreatedEvent {
	return SessionCreatedEvent{
		baseEvent: newBaseEvent("session.created"),
		SessionID: sessionID,
	}
}

// SessionDestroyedEvent is emitted when the last participant leaves and the
// in-memory session is torn down. The durable session row is untouched.
type SessionDestroyedEvent struct {
	baseEvent
	SessionID string
}

// NewSessionDestroyedEvent creates a SessionDestroyedEvent.
func NewSessionDestroyedEvent(sessionID string) SessionDestroyedEvent {
	return SessionDestroyedEvent{
		baseEvent: newBaseEvent("session.destroyed"),
		SessionID: sessionID,
	}
}

// -----------------------------------------------------------------------------
// Participant Events
// -----------------------------------------------------------------------------

// ParticipantJoinedEvent is emitted when a participant connects to a session.
type ParticipantJoinedEvent struct {
	baseEvent
	SessionID     string
	ParticipantID string
	DisplayName   string
	Role          string
}

// NewParticipantJoinedEvent creates a ParticipantJoinedEvent.
func NewParticipantJoinedEvent(sessionID, participantID, displayName, role string) ParticipantJoinedEvent {
	return ParticipantJoinedEvent{
		baseEvent:     newBaseEvent("participant.joined"),
		SessionID:     sessionID,
		ParticipantID: participantID,
		DisplayName:   displayName,
		Role:          role,
	}
}

// ParticipantLeftEvent is emitted when a participant disconnects.
type ParticipantLeftEvent struct {
	baseEvent
	SessionID     string
	ParticipantID string
}

// NewParticipantLeftEvent creates a ParticipantLeftEvent.
func NewParticipantLeftEvent(sessionID, participantID string) ParticipantLeftEvent {
	return ParticipantLeftEvent{
		baseEvent:     newBaseEvent("participant.left"),
		SessionID:     sessionID,
		ParticipantID: participantID,
	}
}

// -----------------------------------------------------------------------------
// Edit Events
// -----------------------------------------------------------------------------

// EditAcceptedEvent is emitted after an operation passes the turn gate, is
// transformed, and is assigned its version.
type EditAcceptedEvent struct {
	baseEvent
	SessionID     string
	ParticipantID string
	OperationID   string
	FilePath      string
	Version       int64
}

// NewEditAcceptedEvent creates an EditAcceptedEvent.
func NewEditAcceptedEvent(sessionID, participantID, operationID, filePath string, version int64) EditAcceptedEvent {
	return EditAcceptedEvent{
		baseEvent:     newBaseEvent("edit.accepted"),
		SessionID:     sessionID,
		ParticipantID: participantID,
		OperationID:   operationID,
		FilePath:      filePath,
		Version:       version,
	}
}

// EditRejectedEvent is emitted when an operation is refused. Reason carries
// the wire-level rejection code (not_your_turn, stale_base_version, ...).
type EditRejectedEvent struct {
	baseEvent
	SessionID     string
	ParticipantID string
	FilePath      string
	Reason        string
}

// NewEditRejectedEvent creates an EditRejectedEvent.
func NewEditRejectedEvent(sessionID, participantID, filePath, reason string) EditRejectedEvent {
	return EditRejectedEvent{
		baseEvent:     newBaseEvent("edit.rejected"),
		SessionID:     sessionID,
		ParticipantID: participantID,
		FilePath:      filePath,
		Reason:        reason,
	}
}

// -----------------------------------------------------------------------------
// Turn Events
// -----------------------------------------------------------------------------

// TurnChangedEvent is emitted on every turn transition the coordinator
// accepts: grants, releases, passes, and idle expiries.
type TurnChangedEvent struct {
	baseEvent
	SessionID     string
	ParticipantID string
	Action        string // granted, released, passed, expired
	CurrentTurn   string
	HolderID      string
}

// NewTurnChangedEvent creates a TurnChangedEvent with the given action.
func NewTurnChangedEvent(sessionID, participantID, action, currentTurn, holderID string) TurnChangedEvent {
	return TurnChangedEvent{
		baseEvent:     newBaseEvent("turn." + action),
		SessionID:     sessionID,
		ParticipantID: participantID,
		Action:        action,
		CurrentTurn:   currentTurn,
		HolderID:      holderID,
	}
}

// TurnDeniedEvent is emitted when a turn request is refused because the
// turn is already held.
type TurnDeniedEvent struct {
	baseEvent
	SessionID     string
	ParticipantID string
	HolderID      string
}

// NewTurnDeniedEvent creates a TurnDeniedEvent.
func NewTurnDeniedEvent(sessionID, participantID, holderID string) TurnDeniedEvent {
	return TurnDeniedEvent{
		baseEvent:     newBaseEvent("turn.denied"),
		SessionID:     sessionID,
		ParticipantID: participantID,
		HolderID:      holderID,
	}
}

// -----------------------------------------------------------------------------
// Persistence Events
// -----------------------------------------------------------------------------

// PersistenceFailedEvent is emitted when an asynchronous store write fails.
// In-memory state has already been broadcast and is never rolled back; the
// event exists so operators can see the durability gap.
type PersistenceFailedEvent struct {
	baseEvent
	SessionID string
	Kind      string // participant, cursor, operation, turn_history
	Error     string
}

// NewPersistenceFailedEvent creates a PersistenceFailedEvent.
func NewPersistenceFailedEvent(sessionID, kind, errMsg string) PersistenceFailedEvent {
	return PersistenceFailedEvent{
		baseEvent: newBaseEvent("persistence.failed"),
		SessionID: sessionID,
		Kind:      kind,
		Error:     errMsg,
	}
}
