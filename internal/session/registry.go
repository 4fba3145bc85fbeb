package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jasonbender-c3x/coedit/internal/event"
	"github.com/jasonbender-c3x/coedit/internal/logging"
	"github.com/jasonbender-c3x/coedit/internal/ot"
	"github.com/jasonbender-c3x/coedit/internal/presence"
	"github.com/jasonbender-c3x/coedit/internal/protocol"
	"github.com/jasonbender-c3x/coedit/internal/store"
	"github.com/jasonbender-c3x/coedit/internal/turn"
)

// Registry errors. Each maps to a wire reason code; see the protocol
// package for the codes clients observe.
var (
	// ErrSessionNotFound is returned when joining a collaboration id the
	// persistence collaborator does not know.
	ErrSessionNotFound = errors.New("session not found")

	// ErrBackendUnavailable is returned when the session-existence lookup
	// on join times out. Retriable.
	ErrBackendUnavailable = errors.New("persistence backend unavailable")

	// ErrNotJoined is returned for operations naming an unknown session or
	// participant.
	ErrNotJoined = errors.New("participant not joined")

	// ErrNotYourTurn is returned when an edit fails the turn gate.
	// Rejected, never queued.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrStaleBaseVersion is returned when an operation's baseVersion falls
	// outside the history retention window. The client must resync.
	ErrStaleBaseVersion = errors.New("base version outside retention window")

	// ErrInvalidPath is returned when a file path fails the allowlist.
	ErrInvalidPath = errors.New("file path not allowed")
)

// ResyncPolicy selects what a stale-baseVersion rejection carries.
type ResyncPolicy string

const (
	// ResyncReject sends a bare rejection; the client rejoins to recover.
	ResyncReject ResyncPolicy = "reject"

	// ResyncSnapshot attaches the current version map to the rejection so
	// the client can rebase locally without rejoining.
	ResyncSnapshot ResyncPolicy = "snapshot"
)

const (
	// DefaultHistoryLimit is the per-file operation retention window. It
	// bounds both memory and how stale a baseVersion may be: a client more
	// than this many operations behind must resync.
	DefaultHistoryLimit = 128

	// DefaultLookupTimeout bounds the synchronous session lookup on join.
	DefaultLookupTimeout = 3 * time.Second

	// DefaultMaintenanceInterval is how often idle-turn expiry runs.
	DefaultMaintenanceInterval = 5 * time.Second
)

// Config holds required dependencies for creating a Registry.
type Config struct {
	Store  store.Store
	Writer *store.Writer
	Bus    *event.Bus
	Logger *logging.Logger
}

// registryConfig holds optional configuration for a Registry.
type registryConfig struct {
	historyLimit        int
	lookupTimeout       time.Duration
	turnIdleTimeout     time.Duration
	maintenanceInterval time.Duration
	resyncPolicy        ResyncPolicy
	pathPatterns        []string
}

// Option configures a Registry.
type Option func(*registryConfig)

// WithHistoryLimit sets the per-file operation retention window.
func WithHistoryLimit(n int) Option {
	return func(c *registryConfig) { c.historyLimit = n }
}

// WithLookupTimeout bounds the synchronous session lookup on join.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *registryConfig) { c.lookupTimeout = d }
}

// WithTurnIdleTimeout enables idle-turn expiry: a held turn with no edit
// activity for d is auto-released by the maintenance tick. Zero disables.
func WithTurnIdleTimeout(d time.Duration) Option {
	return func(c *registryConfig) { c.turnIdleTimeout = d }
}

// WithMaintenanceInterval sets how often the maintenance tick runs.
func WithMaintenanceInterval(d time.Duration) Option {
	return func(c *registryConfig) { c.maintenanceInterval = d }
}

// WithResyncPolicy selects the stale-baseVersion recovery policy.
func WithResyncPolicy(p ResyncPolicy) Option {
	return func(c *registryConfig) { c.resyncPolicy = p }
}

// WithPathPatterns restricts file_open to paths matching at least one of
// the given doublestar globs. Empty means any clean relative path.
func WithPathPatterns(patterns []string) Option {
	return func(c *registryConfig) { c.pathPatterns = patterns }
}

// Registry owns the live sessions and mediates every inbound event. It is
// an explicit object — never package state — so tests run independent
// registries and shutdown is clean.
type Registry struct {
	store  store.Store
	writer *store.Writer
	bus    *event.Bus
	logger *logging.Logger
	cfg    registryConfig

	mu       sync.RWMutex
	sessions map[string]*Session

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	tickDone  chan struct{}
}

// NewRegistry creates a Registry.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	if cfg.Store == nil {
		return nil, errors.New("session: Store is required")
	}
	if cfg.Writer == nil {
		return nil, errors.New("session: Writer is required")
	}
	if cfg.Bus == nil {
		return nil, errors.New("session: Bus is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	rc := registryConfig{
		historyLimit:        DefaultHistoryLimit,
		lookupTimeout:       DefaultLookupTimeout,
		maintenanceInterval: DefaultMaintenanceInterval,
		resyncPolicy:        ResyncReject,
	}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.historyLimit <= 0 {
		rc.historyLimit = DefaultHistoryLimit
	}

	return &Registry{
		store:    cfg.Store,
		writer:   cfg.Writer,
		bus:      cfg.Bus,
		logger:   cfg.Logger.WithComponent("registry"),
		cfg:      rc,
		sessions: make(map[string]*Session),
	}, nil
}

// Start launches the maintenance tick. Safe to call once per registry.
func (r *Registry) Start(ctx context.Context) {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.tickDone = make(chan struct{})

	go func() {
		defer close(r.tickDone)
		ticker := time.NewTicker(r.cfg.maintenanceInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.expireIdleTurns()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the maintenance tick. Idempotent.
func (r *Registry) Stop() {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.tickDone
	r.cancel = nil
}

// SessionCount returns the number of live sessions.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Join validates the collaboration id, registers the participant, and
// replies with the session snapshot. The session lookup is the only
// synchronous persistence call in the engine; it runs under the configured
// timeout, mapping expiry to ErrBackendUnavailable and unknown ids to
// ErrSessionNotFound.
func (r *Registry) Join(ctx context.Context, sessionID string, info JoinInfo) (*Participant, error) {
	if info.Conn == nil {
		return nil, errors.New("session: Conn is required")
	}
	role := info.Role
	if !role.Valid() {
		role = turn.RoleUser
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.cfg.lookupTimeout)
	defer cancel()
	if _, err := r.store.FindSession(lookupCtx, sessionID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: session lookup timed out", ErrBackendUnavailable)
		default:
			return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	// A last leave may tear the session down between getOrCreate and the
	// lock below; a tombstoned session means that happened, so fetch a
	// fresh one.
	var (
		s       *Session
		created bool
	)
	for {
		s, created = r.getOrCreate(sessionID)
		s.mu.Lock()
		if !s.destroyed {
			break
		}
		s.mu.Unlock()
	}
	s.joinCount++
	p := &Participant{
		ID:          store.NewID(),
		DisplayName: info.DisplayName,
		AvatarColor: info.AvatarColor,
		Role:        role,
		Conn:        info.Conn,
		JoinedAt:    time.Now(),
	}
	if p.DisplayName == "" {
		p.DisplayName = defaultDisplayName(role, s.joinCount)
	}
	if p.AvatarColor == "" {
		p.AvatarColor = avatarPalette[(s.joinCount-1)%len(avatarPalette)]
	}
	s.participants[p.ID] = p

	snapshot := s.snapshotLocked(p)
	s.send(p, protocol.Joined(snapshot))
	s.broadcast(p.ID, protocol.ParticipantJoined(p.Info()))
	s.mu.Unlock()

	r.writer.InsertParticipant(store.ParticipantRecord{
		ID:          p.ID,
		SessionID:   sessionID,
		DisplayName: p.DisplayName,
		AvatarColor: p.AvatarColor,
		Role:        string(p.Role),
		Active:      true,
		JoinedAt:    p.JoinedAt,
	})

	if created {
		r.bus.Publish(event.NewSessionCreatedEvent(sessionID))
	}
	r.bus.Publish(event.NewParticipantJoinedEvent(sessionID, p.ID, p.DisplayName, string(p.Role)))
	r.logger.Info("participant joined",
		"session_id", sessionID, "participant_id", p.ID, "role", p.Role)
	return p, nil
}

// Leave removes a participant, releasing the turn if it held one, and
// tears the in-memory session down once empty. Transport disconnect
// handling calls this, so a dropping turn holder can never wedge a session.
func (r *Registry) Leave(sessionID, participantID string) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	p, ok := s.participants[participantID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}
	delete(s.participants, participantID)
	delete(s.openFiles, participantID)
	s.presence.Drop(participantID)

	st, released := s.turns.ReleaseIfHolder(participantID)
	if released {
		s.broadcast(participantID, protocol.TurnReleased(participantID, st))
	}
	s.broadcast(participantID, protocol.ParticipantLeft(participantID, st))
	empty := len(s.participants) == 0
	var history []turn.HistoryEntry
	if empty {
		history = s.turns.History()
	}
	s.mu.Unlock()

	r.writer.MarkParticipantInactive(sessionID, participantID)
	if released {
		r.bus.Publish(event.NewTurnChangedEvent(
			sessionID, participantID, string(turn.ActionReleased), string(st.CurrentTurn), st.HolderID))
	}
	r.bus.Publish(event.NewParticipantLeftEvent(sessionID, participantID))
	r.logger.Info("participant left",
		"session_id", sessionID, "participant_id", participantID, "role", p.Role)

	if empty {
		r.destroy(sessionID, history)
	}
	return nil
}

// SubmitEdit runs the full acceptance pipeline for one operation and
// returns the version it produced. Every rejection is reported to the
// sender over its connection and returned as a sentinel error; other
// participants never see a rejected edit.
func (r *Registry) SubmitEdit(sessionID, participantID string, op ot.Operation) (int64, error) {
	s, err := r.session(sessionID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[participantID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}

	op.ParticipantID = participantID
	if op.ID == "" {
		op.ID = ot.NewOperationID()
	}

	if err := ot.Validate(op); err != nil {
		s.send(p, protocol.EditRejected(
			protocol.ReasonInvalidOperation, op.FilePath, s.turns.State(), s.version(op.FilePath)))
		r.bus.Publish(event.NewEditRejectedEvent(sessionID, participantID, op.FilePath, protocol.ReasonInvalidOperation))
		return 0, err
	}

	if !s.turns.CanEdit(participantID, p.Role) {
		s.send(p, protocol.EditRejected(
			protocol.ReasonNotYourTurn, op.FilePath, s.turns.State(), s.version(op.FilePath)))
		r.bus.Publish(event.NewEditRejectedEvent(sessionID, participantID, op.FilePath, protocol.ReasonNotYourTurn))
		return 0, fmt.Errorf("%w: turn held by %q", ErrNotYourTurn, s.turns.State().HolderID)
	}

	current := s.version(op.FilePath)
	if op.BaseVersion > current {
		s.send(p, protocol.EditRejected(
			protocol.ReasonInvalidOperation, op.FilePath, s.turns.State(), current))
		r.bus.Publish(event.NewEditRejectedEvent(sessionID, participantID, op.FilePath, protocol.ReasonInvalidOperation))
		return 0, fmt.Errorf("%w: base version %d ahead of file version %d",
			ot.ErrInvalidOperation, op.BaseVersion, current)
	}

	pending, inWindow := s.pendingSince(op.FilePath, op.BaseVersion)
	if !inWindow {
		reject := protocol.EditRejected(
			protocol.ReasonStaleBaseVersion, op.FilePath, s.turns.State(), current)
		if r.cfg.resyncPolicy == ResyncSnapshot {
			versions := make(map[string]int64, len(s.versions))
			for path, v := range s.versions {
				versions[path] = v
			}
			reject.Versions = versions
		}
		s.send(p, reject)
		r.bus.Publish(event.NewEditRejectedEvent(sessionID, participantID, op.FilePath, protocol.ReasonStaleBaseVersion))
		return 0, fmt.Errorf("%w: base version %d, window starts after it", ErrStaleBaseVersion, op.BaseVersion)
	}

	transformed := ot.Transform(op, pending)
	version := current + 1
	s.versions[op.FilePath] = version
	s.appendHistory(transformed, version, r.cfg.historyLimit)
	s.turns.Touch(participantID)

	r.writer.InsertOperation(store.OperationRecord{
		ID:            transformed.ID,
		SessionID:     sessionID,
		ParticipantID: participantID,
		FilePath:      transformed.FilePath,
		Kind:          string(transformed.Kind),
		Position:      transformed.Position,
		Length:        transformed.Length,
		Text:          transformed.Text,
		BaseVersion:   transformed.BaseVersion,
		Version:       version,
		AppliedAt:     time.Now(),
	})

	s.broadcast(participantID, protocol.EditBroadcast(transformed, version))
	s.send(p, protocol.EditAck(transformed, version))

	r.bus.Publish(event.NewEditAcceptedEvent(sessionID, participantID, transformed.ID, transformed.FilePath, version))
	r.logger.Debug("edit accepted",
		"session_id", sessionID, "participant_id", participantID,
		"file", transformed.FilePath, "version", version)
	return version, nil
}

// UpdateCursor records and rebroadcasts a cursor position. Ungated:
// cursors are advisory and never touch version counters or history.
func (r *Registry) UpdateCursor(sessionID, participantID string, update protocol.CursorUpdate) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.participants[participantID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}

	cursor := presence.Cursor{
		ParticipantID: participantID,
		FilePath:      update.FilePath,
		Line:          update.Line,
		Column:        update.Column,
		Selection:     update.Selection,
		UpdatedAt:     time.Now(),
	}
	applied := s.presence.Update(cursor)
	if applied {
		s.broadcast(participantID, protocol.CursorBroadcast(cursor))
	}
	s.mu.Unlock()

	if applied {
		r.writer.UpsertCursor(store.CursorRecord{
			SessionID:     sessionID,
			ParticipantID: participantID,
			FilePath:      cursor.FilePath,
			Line:          cursor.Line,
			Column:        cursor.Column,
			UpdatedAt:     cursor.UpdatedAt,
		})
	}
	return nil
}

// OpenFile marks a file open for a participant and announces it. The path
// must pass the allowlist; violations are reported only to the sender.
func (r *Registry) OpenFile(sessionID, participantID, filePath string) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[participantID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}
	if err := r.validatePath(filePath); err != nil {
		s.send(p, protocol.Error(protocol.ReasonInvalidPath, err.Error()))
		return err
	}

	files := s.openFiles[participantID]
	if files == nil {
		files = make(map[string]bool)
		s.openFiles[participantID] = files
	}
	files[filePath] = true

	s.broadcast(participantID, protocol.FileOpened(participantID, filePath, s.version(filePath)))
	return nil
}

// CloseFile marks a file closed, drops the participant's cursor in it, and
// announces the close.
func (r *Registry) CloseFile(sessionID, participantID, filePath string) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[participantID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}
	delete(s.openFiles[participantID], filePath)
	s.presence.DropFile(participantID, filePath)

	s.broadcast(participantID, protocol.FileClosed(participantID, filePath))
	return nil
}

// RequestTurn tries to grant the turn to a participant. Grants are
// broadcast to the whole session; denials go only to the requester.
func (r *Registry) RequestTurn(sessionID, participantID string) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[participantID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}

	st, err := s.turns.Request(participantID, p.Role)
	switch {
	case err == nil:
		s.broadcast("", protocol.TurnGranted(participantID, st))
		r.bus.Publish(event.NewTurnChangedEvent(
			sessionID, participantID, string(turn.ActionGranted), string(st.CurrentTurn), st.HolderID))
		return nil
	case errors.Is(err, turn.ErrAlreadyHeld):
		s.send(p, protocol.TurnAlreadyHeld(st))
		return nil
	default:
		s.send(p, protocol.TurnDenied(st))
		r.bus.Publish(event.NewTurnDeniedEvent(sessionID, participantID, st.HolderID))
		return err
	}
}

// ReleaseTurn frees the turn if the participant holds it. A release by a
// non-holder is a strict no-op: no state change, no broadcast.
func (r *Registry) ReleaseTurn(sessionID, participantID string) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[participantID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotJoined, participantID)
	}

	st, err := s.turns.Release(participantID)
	if err != nil {
		return err
	}
	s.broadcast("", protocol.TurnReleased(participantID, st))
	r.bus.Publish(event.NewTurnChangedEvent(
		sessionID, participantID, string(turn.ActionReleased), string(st.CurrentTurn), st.HolderID))
	return nil
}

// PassTurn hands the turn from its holder to another connected
// participant, degrading to a release when the target is empty or gone.
func (r *Registry) PassTurn(sessionID, fromID, toID string) error {
	s, err := r.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[fromID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotJoined, fromID)
	}

	target, connected := s.participants[toID]
	var toRole turn.Role
	if connected {
		toRole = target.Role
	}

	st, err := s.turns.Pass(fromID, toID, toRole, connected)
	if err != nil {
		return err
	}
	if st.Held() {
		s.broadcast("", protocol.TurnPassed(toID, st))
		r.bus.Publish(event.NewTurnChangedEvent(
			sessionID, toID, string(turn.ActionPassed), string(st.CurrentTurn), st.HolderID))
	} else {
		s.broadcast("", protocol.TurnReleased(fromID, st))
		r.bus.Publish(event.NewTurnChangedEvent(
			sessionID, fromID, string(turn.ActionReleased), string(st.CurrentTurn), st.HolderID))
	}
	return nil
}

// TurnState returns the current turn state for a session.
func (r *Registry) TurnState(sessionID string) (turn.State, error) {
	s, err := r.session(sessionID)
	if err != nil {
		return turn.State{}, err
	}
	return s.turns.State(), nil
}

// FileVersion returns the current version of a file in a session.
func (r *Registry) FileVersion(sessionID, filePath string) (int64, error) {
	s, err := r.session(sessionID)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version(filePath), nil
}

// session looks up a live session.
func (r *Registry) session(sessionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s not live", ErrNotJoined, sessionID)
	}
	return s, nil
}

// getOrCreate returns the live session, creating it on first join.
func (r *Registry) getOrCreate(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		return s, false
	}
	s := newSession(sessionID, r.logger)
	r.sessions[sessionID] = s
	return s, true
}

// destroy drops the in-memory session after flushing its turn audit log.
// The durable session row stays; the collaboration can be rejoined later.
// If a join repopulated the session since the caller saw it empty, the
// session survives.
func (r *Registry) destroy(sessionID string, history []turn.HistoryEntry) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if ok {
		s.mu.Lock()
		if len(s.participants) > 0 {
			s.mu.Unlock()
			r.mu.Unlock()
			return
		}
		s.destroyed = true
		s.mu.Unlock()
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}

	if len(history) > 0 {
		records := make([]store.TurnEventRecord, len(history))
		for i, h := range history {
			records[i] = store.TurnEventRecord{
				SessionID:     sessionID,
				ParticipantID: h.ParticipantID,
				Action:        string(h.Action),
				At:            h.At,
			}
		}
		r.writer.InsertTurnEvents(sessionID, records)
	}

	r.bus.Publish(event.NewSessionDestroyedEvent(sessionID))
	r.logger.Info("session destroyed", "session_id", sessionID)
}

// expireIdleTurns runs one maintenance sweep over all live sessions.
func (r *Registry) expireIdleTurns() {
	if r.cfg.turnIdleTimeout <= 0 {
		return
	}

	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		s.mu.Lock()
		holder := s.turns.State().HolderID
		st, expired := s.turns.ExpireIdle(r.cfg.turnIdleTimeout)
		if expired {
			s.broadcast("", protocol.TurnReleased(holder, st))
		}
		s.mu.Unlock()

		if expired {
			r.bus.Publish(event.NewTurnChangedEvent(
				s.ID(), holder, string(turn.ActionExpired), string(st.CurrentTurn), st.HolderID))
			r.logger.Info("idle turn expired", "session_id", s.ID(), "participant_id", holder)
		}
	}
}

// validatePath enforces clean, session-relative paths and the configured
// allowlist globs.
func (r *Registry) validatePath(filePath string) error {
	if filePath == "" || strings.HasPrefix(filePath, "/") || strings.Contains(filePath, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, filePath)
	}
	if len(r.cfg.pathPatterns) == 0 {
		return nil
	}
	for _, pattern := range r.cfg.pathPatterns {
		if ok, err := doublestar.Match(pattern, filePath); err == nil && ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %q matches no allowed pattern", ErrInvalidPath, filePath)
}
