package turn

import (
	"fmt"
	"sync"
	"time"
)

// Coordinator is the two-category mutual-exclusion state machine deciding
// which participant may submit edits. It is either Free, with CurrentTurn
// naming the next eligible role, or Held by exactly one participant.
//
// A Coordinator belongs to one session and lives for that session's
// lifetime. Methods are safe for concurrent use, though the owning session
// already serializes access.
type Coordinator struct {
	mu           sync.Mutex
	state        State
	holderRole   Role
	lastActivity time.Time
	history      []HistoryEntry
	now          func() time.Time
}

// New creates a Coordinator in the Free state with the user role eligible
// first: a fresh session always gives the human the opening move.
func New() *Coordinator {
	return &Coordinator{
		state: State{CurrentTurn: RoleUser},
		now:   time.Now,
	}
}

// State returns a snapshot of the current turn state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a copy of the append-only transition log.
func (c *Coordinator) History() []HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}

// Request attempts to grant the turn to the given participant. On success
// the returned state reflects the new hold. A repeat request by the current
// holder returns ErrAlreadyHeld; a request while somebody else holds the
// turn returns ErrHeldByOther. Both error cases return the unchanged state
// so callers can report the current holder to the requester.
func (c *Coordinator) Request(participantID string, role Role) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if role == RoleGuest {
		return c.state, fmt.Errorf("%w: %s", ErrGuestRole, participantID)
	}
	if c.state.Held() {
		if c.state.HolderID == participantID {
			return c.state, fmt.Errorf("%w: %s", ErrAlreadyHeld, participantID)
		}
		return c.state, fmt.Errorf("%w: held by %s", ErrHeldByOther, c.state.HolderID)
	}

	now := c.now()
	c.state = State{CurrentTurn: role, HolderID: participantID, StartedAt: now}
	c.holderRole = role
	c.lastActivity = now
	c.append(participantID, ActionGranted, now)
	return c.state, nil
}

// Release frees the turn and flips CurrentTurn to the opposite role, giving
// the other side of the collaboration its chance. Only the holder may
// release; anyone else gets ErrNotHolder with no state change and no
// history entry.
func (c *Coordinator) Release(participantID string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.HolderID != participantID {
		return c.state, fmt.Errorf("%w: %s", ErrNotHolder, participantID)
	}
	c.release(participantID, ActionReleased)
	return c.state, nil
}

// Pass transfers the turn directly from the holder to another connected
// participant, without the free/claim round trip. When toConnected is
// false (the target left between the client's snapshot and now) Pass
// degrades to a plain release. Passing to a guest fails with ErrGuestRole.
func (c *Coordinator) Pass(fromID, toID string, toRole Role, toConnected bool) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.HolderID != fromID {
		return c.state, fmt.Errorf("%w: %s", ErrNotHolder, fromID)
	}
	if !toConnected || toID == "" {
		c.release(fromID, ActionReleased)
		return c.state, nil
	}
	if toRole == RoleGuest {
		return c.state, fmt.Errorf("%w: %s", ErrGuestRole, toID)
	}

	now := c.now()
	c.append(fromID, ActionPassed, now)
	c.state = State{CurrentTurn: toRole, HolderID: toID, StartedAt: now}
	c.holderRole = toRole
	c.lastActivity = now
	c.append(toID, ActionGranted, now)
	return c.state, nil
}

// CanEdit implements the edit-acceptance gate: a participant may edit iff
// it holds the turn, or the turn is free and CurrentTurn matches its role.
func (c *Coordinator) CanEdit(participantID string, role Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if role == RoleGuest {
		return false
	}
	if c.state.Held() {
		return c.state.HolderID == participantID
	}
	return c.state.CurrentTurn == role
}

// Touch records edit activity by the holder, deferring idle expiry.
func (c *Coordinator) Touch(participantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.HolderID == participantID {
		c.lastActivity = c.now()
	}
}

// ReleaseIfHolder frees the turn if the given participant holds it,
// reporting whether a release happened. Used by disconnect handling so a
// departing holder never leaves the turn stuck.
func (c *Coordinator) ReleaseIfHolder(participantID string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.HolderID != participantID {
		return c.state, false
	}
	c.release(participantID, ActionReleased)
	return c.state, true
}

// ExpireIdle releases the turn if it has been held without edit activity
// for longer than timeout. A timeout of zero disables expiry. Reports
// whether an expiry happened; the session's maintenance tick drives this.
func (c *Coordinator) ExpireIdle(timeout time.Duration) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timeout <= 0 || !c.state.Held() {
		return c.state, false
	}
	if c.now().Sub(c.lastActivity) < timeout {
		return c.state, false
	}
	c.release(c.state.HolderID, ActionExpired)
	return c.state, true
}

// release frees the turn and flips the eligible role. Caller holds c.mu.
func (c *Coordinator) release(participantID string, action Action) {
	next := c.holderRole.Opposite()
	c.append(participantID, action, c.now())
	c.state = State{CurrentTurn: next}
	c.holderRole = ""
}

func (c *Coordinator) append(participantID string, action Action, at time.Time) {
	c.history = append(c.history, HistoryEntry{
		ParticipantID: participantID,
		Action:        action,
		At:            at,
	})
}
