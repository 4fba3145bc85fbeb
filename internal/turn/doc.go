// Package turn implements the mutual-exclusion state machine that decides
// which participant may submit edits at any given moment.
//
// Human/AI collaboration on a shared document is serialized with a turn
// model rather than free-for-all merging: at most one participant holds the
// turn, and edits from everyone else are rejected outright, never queued.
// The machine has two states:
//
//   - Free: nobody holds the turn. CurrentTurn names the role (user or ai)
//     entitled to edit or to claim the turn next.
//   - Held: one participant owns the turn. Only that participant may edit.
//
// Releasing a turn flips CurrentTurn to the opposite role, giving the other
// side of the collaboration its chance. Passing transfers the turn directly
// to a connected participant. Guests can never hold the turn.
//
// There is no terminal state; a [Coordinator] runs for its session's
// lifetime and is discarded on teardown, after the session flushes the
// append-only [HistoryEntry] log.
//
// # Basic Usage
//
//	c := turn.New()
//
//	st, err := c.Request("alice", turn.RoleUser) // granted
//	ok := c.CanEdit("alice", turn.RoleUser)      // true
//	st, err = c.Release("alice")                 // CurrentTurn flips to ai
//
// All methods are safe for concurrent use, though in practice each
// Coordinator lives inside a single session and is already serialized by
// the session lock.
package turn
