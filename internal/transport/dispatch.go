package transport

import (
	"context"
	"errors"

	"github.com/jasonbender-c3x/coedit/internal/ot"
	"github.com/jasonbender-c3x/coedit/internal/protocol"
	"github.com/jasonbender-c3x/coedit/internal/session"
	"github.com/jasonbender-c3x/coedit/internal/turn"
)

// dispatch routes one raw frame from a client. Protocol violations are
// answered with an error envelope to the offending client only; semantic
// rejections (turn gate, stale versions, denied turns) are already
// reported by the registry over the same connection, so their sentinel
// errors are swallowed here.
func (s *Server) dispatch(c *client, data []byte) {
	in, err := protocol.Decode(data)
	if err != nil {
		switch {
		case errors.Is(err, protocol.ErrUnknownEvent):
			c.sendMsg(protocol.Error(protocol.ReasonUnknownEvent, err.Error()))
		default:
			c.sendMsg(protocol.Error(protocol.ReasonMalformedEvent, err.Error()))
		}
		return
	}

	if in.Kind == protocol.KindJoin {
		s.handleJoin(c, in.Join)
		return
	}
	if in.Kind == protocol.KindPing {
		c.sendMsg(protocol.Pong())
		return
	}
	if !c.joined() {
		c.sendMsg(protocol.Error(protocol.ReasonNotJoined, "join the session before sending events"))
		return
	}

	switch in.Kind {
	case protocol.KindCursor:
		err = s.registry.UpdateCursor(c.sessionID, c.participantID, *in.Cursor)
	case protocol.KindEdit:
		_, err = s.registry.SubmitEdit(c.sessionID, c.participantID, *in.Edit)
		if isReportedEditError(err) {
			err = nil
		}
	case protocol.KindFileOpen:
		err = s.registry.OpenFile(c.sessionID, c.participantID, in.File.FilePath)
		if errors.Is(err, session.ErrInvalidPath) {
			err = nil
		}
	case protocol.KindFileClose:
		err = s.registry.CloseFile(c.sessionID, c.participantID, in.File.FilePath)
	case protocol.KindTurnRequest:
		err = s.registry.RequestTurn(c.sessionID, c.participantID)
		if errors.Is(err, turn.ErrHeldByOther) || errors.Is(err, turn.ErrGuestRole) {
			err = nil
		}
	case protocol.KindTurnRelease:
		err = s.registry.ReleaseTurn(c.sessionID, c.participantID)
		if errors.Is(err, turn.ErrNotHolder) {
			err = nil
		}
	case protocol.KindTurnPass:
		err = s.registry.PassTurn(c.sessionID, c.participantID, in.TurnPass.To)
		switch {
		case errors.Is(err, turn.ErrNotHolder):
			c.sendMsg(protocol.Error(protocol.ReasonNotYourTurn, "only the turn holder may pass"))
			err = nil
		case errors.Is(err, turn.ErrGuestRole):
			c.sendMsg(protocol.Error(protocol.ReasonInvalidOperation, "cannot pass the turn to a guest"))
			err = nil
		}
	}

	if errors.Is(err, session.ErrNotJoined) {
		c.sendMsg(protocol.Error(protocol.ReasonNotJoined, err.Error()))
	} else if err != nil {
		c.logger.Warn("dispatch failed",
			"kind", string(in.Kind), "participant_id", c.participantID, "error", err)
	}
}

// isReportedEditError reports whether the registry already sent an
// edit_rejected envelope for err, making a second reply redundant.
func isReportedEditError(err error) bool {
	return errors.Is(err, session.ErrNotYourTurn) ||
		errors.Is(err, session.ErrStaleBaseVersion) ||
		errors.Is(err, ot.ErrInvalidOperation)
}

// handleJoin runs the join handshake. The session id comes from the URL
// path; a payload naming a different session is refused.
func (s *Server) handleJoin(c *client, req *protocol.JoinRequest) {
	if c.joined() {
		c.sendMsg(protocol.Error(protocol.ReasonInvalidOperation, "already joined"))
		return
	}
	if req.SessionID != "" && req.SessionID != c.sessionID {
		c.sendMsg(protocol.Error(protocol.ReasonSessionNotFound,
			"join payload names a different session than the connection path"))
		return
	}

	p, err := s.registry.Join(context.Background(), c.sessionID, session.JoinInfo{
		DisplayName: req.DisplayName,
		AvatarColor: req.AvatarColor,
		Role:        req.Role,
		Conn:        c,
	})
	switch {
	case err == nil:
		c.participantID = p.ID
		c.logger = c.logger.WithParticipant(p.ID)
	case errors.Is(err, session.ErrSessionNotFound):
		c.sendMsg(protocol.Error(protocol.ReasonSessionNotFound, err.Error()))
	case errors.Is(err, session.ErrBackendUnavailable):
		c.sendMsg(protocol.Error(protocol.ReasonBackendUnavailable, err.Error()))
	default:
		c.logger.Warn("join failed", "error", err)
		c.sendMsg(protocol.Error(protocol.ReasonBackendUnavailable, "join failed"))
	}
}

// sendMsg encodes and queues one message, logging delivery problems.
func (c *client) sendMsg(msg any) {
	data, err := protocol.Encode(msg)
	if err != nil {
		c.logger.Error("encode reply", "error", err)
		return
	}
	if err := c.Send(data); err != nil {
		c.logger.Debug("reply dropped", "error", err)
	}
}
