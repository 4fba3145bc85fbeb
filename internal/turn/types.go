package turn

import (
	"errors"
	"time"
)

// Turn errors returned by Coordinator transitions. All are wrapped with the
// identity of the participant that caused them.
var (
	// ErrAlreadyHeld is returned when the current holder requests the turn
	// again.
	ErrAlreadyHeld = errors.New("turn already held by requester")

	// ErrHeldByOther is returned when a participant requests a turn
	// currently held by somebody else.
	ErrHeldByOther = errors.New("turn held by another participant")

	// ErrNotHolder is returned when a release or pass comes from a
	// participant that does not hold the turn. The coordinator state is
	// unchanged.
	ErrNotHolder = errors.New("participant does not hold the turn")

	// ErrGuestRole is returned when a guest attempts to request or receive
	// the turn. Guests observe; they never edit.
	ErrGuestRole = errors.New("guests cannot hold the turn")
)

// Role categorizes a participant for turn-taking purposes. The turn
// alternates between RoleUser and RoleAI; RoleGuest is read-only.
type Role string

const (
	RoleUser  Role = "user"
	RoleAI    Role = "ai"
	RoleGuest Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAI, RoleGuest:
		return true
	}
	return false
}

// Opposite returns the other editing role. Guest has no opposite and maps
// to RoleUser, the role a fresh session starts with.
func (r Role) Opposite() Role {
	switch r {
	case RoleUser:
		return RoleAI
	case RoleAI:
		return RoleUser
	default:
		return RoleUser
	}
}

// State is a snapshot of the coordinator: which role may currently edit and
// who, if anyone, holds the turn.
type State struct {
	// CurrentTurn names the role entitled to edit or claim the turn.
	CurrentTurn Role `json:"current_turn"`

	// HolderID is the participant currently holding the turn, or empty
	// when the turn is free.
	HolderID string `json:"holder_id,omitempty"`

	// StartedAt is when the current hold began. Zero when free.
	StartedAt time.Time `json:"started_at,omitempty"`
}

// Held reports whether a participant currently holds the turn.
func (s State) Held() bool { return s.HolderID != "" }

// Action is the kind of a turn history entry.
type Action string

const (
	ActionGranted  Action = "granted"
	ActionReleased Action = "released"
	ActionPassed   Action = "passed"
	ActionExpired  Action = "expired"
)

// HistoryEntry records one turn transition in the append-only audit log.
// The log is flushed to the store when the session tears down.
type HistoryEntry struct {
	ParticipantID string    `json:"participant_id"`
	Action        Action    `json:"action"`
	At            time.Time `json:"at"`
}
