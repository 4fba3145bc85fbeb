package session

import (
	"fmt"
	"time"

	"github.com/jasonbender-c3x/coedit/internal/protocol"
	"github.com/jasonbender-c3x/coedit/internal/turn"
)

// Conn is the write side of a participant's connection. The registry only
// ever sends; reading and connection lifecycle belong to the transport.
// Send must not block session processing for long — transports buffer.
type Conn interface {
	Send(data []byte) error
}

// Participant is one connected member of a session.
type Participant struct {
	ID          string
	DisplayName string
	AvatarColor string
	Role        turn.Role
	Conn        Conn
	JoinedAt    time.Time
}

// Info returns the participant's wire representation.
func (p *Participant) Info() protocol.ParticipantInfo {
	return protocol.ParticipantInfo{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarColor: p.AvatarColor,
		Role:        p.Role,
	}
}

// JoinInfo describes a joining participant. DisplayName and AvatarColor
// are optional; the registry assigns defaults so clients always have
// distinguishable collaborators to render.
type JoinInfo struct {
	DisplayName string
	AvatarColor string
	Role        turn.Role
	Conn        Conn
}

// avatarPalette is cycled through for participants that join without a
// color of their own.
var avatarPalette = []string{
	"#e06c75", "#61afef", "#98c379", "#c678dd",
	"#e5c07b", "#56b6c2", "#d19a66", "#abb2bf",
}

// defaultDisplayName names anonymous participants by role and join order.
func defaultDisplayName(role turn.Role, ordinal int) string {
	switch role {
	case turn.RoleAI:
		return fmt.Sprintf("Agent %d", ordinal)
	case turn.RoleGuest:
		return fmt.Sprintf("Guest %d", ordinal)
	default:
		return fmt.Sprintf("User %d", ordinal)
	}
}
