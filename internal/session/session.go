package session

import (
	"sync"

	"github.com/jasonbender-c3x/coedit/internal/logging"
	"github.com/jasonbender-c3x/coedit/internal/ot"
	"github.com/jasonbender-c3x/coedit/internal/presence"
	"github.com/jasonbender-c3x/coedit/internal/protocol"
	"github.com/jasonbender-c3x/coedit/internal/turn"
)

// acceptedOp is one committed operation together with the file version it
// produced, the unit of the per-file history window.
type acceptedOp struct {
	op      ot.Operation
	version int64
}

// Session is the in-memory state of one live collaboration. All fields
// behind mu are mutated only while it is held; the registry locks a
// session for the full handling of each inbound message, which is the
// single-writer discipline the transform pipeline relies on.
type Session struct {
	id string

	mu           sync.Mutex
	destroyed    bool // torn down; joiners holding a stale pointer must retry
	participants map[string]*Participant
	joinCount    int
	versions     map[string]int64
	history      map[string][]acceptedOp
	openFiles    map[string]map[string]bool // participantID -> open file set
	turns        *turn.Coordinator
	presence     *presence.Tracker
	logger       *logging.Logger
}

func newSession(id string, logger *logging.Logger) *Session {
	return &Session{
		id:           id,
		participants: make(map[string]*Participant),
		versions:     make(map[string]int64),
		history:      make(map[string][]acceptedOp),
		openFiles:    make(map[string]map[string]bool),
		turns:        turn.New(),
		presence:     presence.NewTracker(),
		logger:       logger.WithSession(id),
	}
}

// ID returns the collaboration id.
func (s *Session) ID() string { return s.id }

// version returns the current version of a file. Files start at 0 and are
// created implicitly by their first accepted operation. Caller holds s.mu.
func (s *Session) version(filePath string) int64 {
	return s.versions[filePath]
}

// appendHistory records an accepted operation, evicting the oldest entry
// once the window is full. Caller holds s.mu.
func (s *Session) appendHistory(op ot.Operation, version int64, limit int) {
	entries := append(s.history[op.FilePath], acceptedOp{op: op, version: version})
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	s.history[op.FilePath] = entries
}

// pendingSince returns the accepted operations a sender at baseVersion has
// not seen, in acceptance order, and whether the window still reaches back
// that far. Caller holds s.mu.
func (s *Session) pendingSince(filePath string, baseVersion int64) ([]ot.Operation, bool) {
	current := s.versions[filePath]
	if baseVersion >= current {
		return nil, true
	}

	entries := s.history[filePath]
	// The window must contain every op that moved the file past
	// baseVersion, i.e. the ones that produced versions baseVersion+1..current.
	if len(entries) == 0 || entries[0].version > baseVersion+1 {
		return nil, false
	}

	pending := make([]ot.Operation, 0, len(entries))
	for _, e := range entries {
		if e.version > baseVersion {
			pending = append(pending, e.op)
		}
	}
	return pending, true
}

// snapshotLocked builds the join payload. Caller holds s.mu.
func (s *Session) snapshotLocked(self *Participant) protocol.Snapshot {
	participants := make([]protocol.ParticipantInfo, 0, len(s.participants))
	for _, p := range s.participants {
		participants = append(participants, p.Info())
	}
	versions := make(map[string]int64, len(s.versions))
	for path, v := range s.versions {
		versions[path] = v
	}
	return protocol.Snapshot{
		SessionID:    s.id,
		Self:         self.Info(),
		Participants: participants,
		Turn:         s.turns.State(),
		Versions:     versions,
		Cursors:      s.presence.Snapshot(),
	}
}

// send marshals msg and delivers it to one participant. Delivery failures
// are logged and dropped; the transport notices the dead connection on its
// own and triggers the leave path.
func (s *Session) send(p *Participant, msg any) {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Error("encode outbound message", "error", err)
		return
	}
	if err := p.Conn.Send(data); err != nil {
		s.logger.Warn("send to participant failed",
			"participant_id", p.ID, "error", err)
	}
}

// broadcast delivers msg to every participant except the named one. Pass
// an empty exclude to reach everyone. Caller holds s.mu.
func (s *Session) broadcast(exclude string, msg any) {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Error("encode broadcast", "error", err)
		return
	}
	for id, p := range s.participants {
		if id == exclude {
			continue
		}
		if err := p.Conn.Send(data); err != nil {
			s.logger.Warn("broadcast to participant failed",
				"participant_id", id, "error", err)
		}
	}
}
