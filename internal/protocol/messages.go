package protocol

import (
	"github.com/jasonbender-c3x/coedit/internal/ot"
	"github.com/jasonbender-c3x/coedit/internal/presence"
	"github.com/jasonbender-c3x/coedit/internal/turn"
)

// Rejection and error reason codes carried by EditRejectedMsg and ErrorMsg.
const (
	ReasonInvalidOperation   = "invalid_operation"
	ReasonNotYourTurn        = "not_your_turn"
	ReasonSessionNotFound    = "session_not_found"
	ReasonStaleBaseVersion   = "stale_base_version"
	ReasonBackendUnavailable = "backend_unavailable"
	ReasonInvalidPath        = "invalid_path"
	ReasonUnknownEvent       = "unknown_event"
	ReasonMalformedEvent     = "malformed_event"
	ReasonNotJoined          = "not_joined"
)

// ParticipantInfo is the wire shape of one session member.
type ParticipantInfo struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarColor string    `json:"avatar_color"`
	Role        turn.Role `json:"role"`
}

// Snapshot is the session state handed to a participant on join.
type Snapshot struct {
	SessionID    string            `json:"session_id"`
	Self         ParticipantInfo   `json:"self"`
	Participants []ParticipantInfo `json:"participants"`
	Turn         turn.State        `json:"turn"`
	Versions     map[string]int64  `json:"versions"`
	Cursors      []presence.Cursor `json:"cursors"`
}

// JoinedMsg acknowledges a join with the full session snapshot.
type JoinedMsg struct {
	Type     Kind     `json:"type"`
	Snapshot Snapshot `json:"snapshot"`
}

// Joined builds the join acknowledgement.
func Joined(snapshot Snapshot) JoinedMsg {
	return JoinedMsg{Type: KindJoined, Snapshot: snapshot}
}

// ParticipantJoinedMsg announces a new participant to the rest of the session.
type ParticipantJoinedMsg struct {
	Type        Kind            `json:"type"`
	Participant ParticipantInfo `json:"participant"`
}

// ParticipantJoined builds a participant_joined broadcast.
func ParticipantJoined(p ParticipantInfo) ParticipantJoinedMsg {
	return ParticipantJoinedMsg{Type: KindParticipantJoined, Participant: p}
}

// ParticipantLeftMsg announces a departure.
type ParticipantLeftMsg struct {
	Type          Kind       `json:"type"`
	ParticipantID string     `json:"participant_id"`
	Turn          turn.State `json:"turn"`
}

// ParticipantLeft builds a participant_left broadcast. Turn carries the
// state after any implicit release by the departing holder.
func ParticipantLeft(participantID string, st turn.State) ParticipantLeftMsg {
	return ParticipantLeftMsg{Type: KindParticipantLeft, ParticipantID: participantID, Turn: st}
}

// CursorMsg rebroadcasts a cursor position to the other participants.
type CursorMsg struct {
	Type   Kind            `json:"type"`
	Cursor presence.Cursor `json:"cursor"`
}

// CursorBroadcast builds a cursor broadcast.
func CursorBroadcast(c presence.Cursor) CursorMsg {
	return CursorMsg{Type: KindCursor, Cursor: c}
}

// EditMsg broadcasts an accepted, transformed operation to everyone except
// the sender. Version is the version the file reached by applying it.
type EditMsg struct {
	Type    Kind         `json:"type"`
	Op      ot.Operation `json:"op"`
	Version int64        `json:"version"`
}

// EditBroadcast builds an edit broadcast.
func EditBroadcast(op ot.Operation, version int64) EditMsg {
	return EditMsg{Type: KindEdit, Op: op, Version: version}
}

// EditAckMsg acknowledges an accepted edit to its sender only.
type EditAckMsg struct {
	Type        Kind   `json:"type"`
	OperationID string `json:"operation_id"`
	FilePath    string `json:"file_path"`
	Version     int64  `json:"version"`
}

// EditAck builds the sender-only acknowledgement.
func EditAck(op ot.Operation, version int64) EditAckMsg {
	return EditAckMsg{Type: KindEditAck, OperationID: op.ID, FilePath: op.FilePath, Version: version}
}

// EditRejectedMsg refuses an edit. Turn and Version describe the current
// state so the client can recover; Versions is attached only under the
// snapshot resync policy for stale submissions.
type EditRejectedMsg struct {
	Type     Kind             `json:"type"`
	Reason   string           `json:"reason"`
	FilePath string           `json:"file_path,omitempty"`
	Turn     turn.State       `json:"turn"`
	Version  int64            `json:"version"`
	Versions map[string]int64 `json:"versions,omitempty"`
}

// EditRejected builds an edit rejection.
func EditRejected(reason, filePath string, st turn.State, version int64) EditRejectedMsg {
	return EditRejectedMsg{
		Type:     KindEditRejected,
		Reason:   reason,
		FilePath: filePath,
		Turn:     st,
		Version:  version,
	}
}

// TurnMsg carries a turn state change: granted, released, passed, or
// already_held. ParticipantID is the participant the action concerns.
type TurnMsg struct {
	Type          Kind       `json:"type"`
	ParticipantID string     `json:"participant_id,omitempty"`
	Turn          turn.State `json:"turn"`
}

// TurnGranted builds a turn_granted broadcast.
func TurnGranted(participantID string, st turn.State) TurnMsg {
	return TurnMsg{Type: KindTurnGranted, ParticipantID: participantID, Turn: st}
}

// TurnReleased builds a turn_released broadcast.
func TurnReleased(participantID string, st turn.State) TurnMsg {
	return TurnMsg{Type: KindTurnReleased, ParticipantID: participantID, Turn: st}
}

// TurnPassed builds a turn_passed broadcast naming the new holder.
func TurnPassed(toID string, st turn.State) TurnMsg {
	return TurnMsg{Type: KindTurnPassed, ParticipantID: toID, Turn: st}
}

// TurnAlreadyHeld tells a requester it already holds the turn.
func TurnAlreadyHeld(st turn.State) TurnMsg {
	return TurnMsg{Type: KindTurnAlreadyHeld, Turn: st}
}

// TurnDeniedMsg refuses a turn request, naming the current holder.
type TurnDeniedMsg struct {
	Type     Kind       `json:"type"`
	HolderID string     `json:"holder_id"`
	Turn     turn.State `json:"turn"`
}

// TurnDenied builds a turn_denied reply.
func TurnDenied(st turn.State) TurnDeniedMsg {
	return TurnDeniedMsg{Type: KindTurnDenied, HolderID: st.HolderID, Turn: st}
}

// FileMsg announces a participant opening or closing a file.
type FileMsg struct {
	Type          Kind   `json:"type"`
	ParticipantID string `json:"participant_id"`
	FilePath      string `json:"file_path"`
	Version       int64  `json:"version"`
}

// FileOpened builds a file_opened broadcast. Version lets late openers
// start from the file's current version.
func FileOpened(participantID, filePath string, version int64) FileMsg {
	return FileMsg{Type: KindFileOpened, ParticipantID: participantID, FilePath: filePath, Version: version}
}

// FileClosed builds a file_closed broadcast.
func FileClosed(participantID, filePath string) FileMsg {
	return FileMsg{Type: KindFileClosed, ParticipantID: participantID, FilePath: filePath}
}

// PongMsg answers a ping.
type PongMsg struct {
	Type Kind `json:"type"`
}

// Pong builds a pong reply.
func Pong() PongMsg {
	return PongMsg{Type: KindPong}
}

// ErrorMsg reports a protocol-level violation to the offending participant
// only. Other participants never see it.
type ErrorMsg struct {
	Type    Kind   `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error builds an error reply.
func Error(code, message string) ErrorMsg {
	return ErrorMsg{Type: KindError, Code: code, Message: message}
}
