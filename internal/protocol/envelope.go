package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jasonbender-c3x/coedit/internal/ot"
	"github.com/jasonbender-c3x/coedit/internal/presence"
	"github.com/jasonbender-c3x/coedit/internal/turn"
)

// Decode errors.
var (
	// ErrUnknownEvent is returned for an envelope whose type is not a
	// recognized inbound kind. Unknown kinds are rejected, never ignored.
	ErrUnknownEvent = errors.New("unknown event kind")

	// ErrMalformedEvent is returned when an envelope is not valid JSON or
	// its payload does not match the shape its kind requires.
	ErrMalformedEvent = errors.New("malformed event")
)

// Kind tags a wire envelope.
type Kind string

// Inbound event kinds.
const (
	KindJoin        Kind = "join"
	KindCursor      Kind = "cursor"
	KindEdit        Kind = "edit"
	KindFileOpen    Kind = "file_open"
	KindFileClose   Kind = "file_close"
	KindTurnRequest Kind = "turn_request"
	KindTurnRelease Kind = "turn_release"
	KindTurnPass    Kind = "turn_pass"
	KindPing        Kind = "ping"
)

// Outbound event kinds.
const (
	KindJoined            Kind = "joined"
	KindParticipantJoined Kind = "participant_joined"
	KindParticipantLeft   Kind = "participant_left"
	KindEditAck           Kind = "edit_ack"
	KindEditRejected      Kind = "edit_rejected"
	KindTurnGranted       Kind = "turn_granted"
	KindTurnDenied        Kind = "turn_denied"
	KindTurnAlreadyHeld   Kind = "turn_already_held"
	KindTurnReleased      Kind = "turn_released"
	KindTurnPassed        Kind = "turn_passed"
	KindFileOpened        Kind = "file_opened"
	KindFileClosed        Kind = "file_closed"
	KindPong              Kind = "pong"
	KindError             Kind = "error"
)

// JoinRequest is the payload of a join envelope, the first message every
// connection must send.
type JoinRequest struct {
	SessionID   string    `json:"session_id"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarColor string    `json:"avatar_color,omitempty"`
	Role        turn.Role `json:"role"`
}

// CursorUpdate is the payload of a cursor envelope. The server stamps the
// sender's participant id before rebroadcasting.
type CursorUpdate struct {
	FilePath  string              `json:"file_path"`
	Line      int                 `json:"line"`
	Column    int                 `json:"column"`
	Selection *presence.Selection `json:"selection,omitempty"`
}

// FileRef is the payload of file_open and file_close envelopes.
type FileRef struct {
	FilePath string `json:"file_path"`
}

// TurnPassRequest is the payload of a turn_pass envelope. An empty To
// degrades the pass to a release.
type TurnPassRequest struct {
	To string `json:"to,omitempty"`
}

// Inbound is the decoded form of one client envelope. Exactly one payload
// field is non-nil, selected by Kind; kinds without a payload (ping,
// turn_request, turn_release) populate only Kind.
type Inbound struct {
	Kind     Kind
	Join     *JoinRequest
	Cursor   *CursorUpdate
	Edit     *ot.Operation
	File     *FileRef
	TurnPass *TurnPassRequest
}

// Decode parses one wire envelope into its tagged-union form. The match on
// kind is exhaustive over the inbound protocol; anything else is
// [ErrUnknownEvent]. Payloads that fail to parse are [ErrMalformedEvent].
func Decode(data []byte) (Inbound, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	in := Inbound{Kind: head.Type}
	switch head.Type {
	case KindJoin:
		in.Join = &JoinRequest{}
		return in, unmarshalPayload(data, in.Join)
	case KindCursor:
		in.Cursor = &CursorUpdate{}
		return in, unmarshalPayload(data, in.Cursor)
	case KindEdit:
		in.Edit = &ot.Operation{}
		return in, unmarshalPayload(data, in.Edit)
	case KindFileOpen, KindFileClose:
		in.File = &FileRef{}
		return in, unmarshalPayload(data, in.File)
	case KindTurnPass:
		in.TurnPass = &TurnPassRequest{}
		return in, unmarshalPayload(data, in.TurnPass)
	case KindTurnRequest, KindTurnRelease, KindPing:
		return in, nil
	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownEvent, head.Type)
	}
}

func unmarshalPayload(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

// Encode marshals an outbound message to its wire form.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
