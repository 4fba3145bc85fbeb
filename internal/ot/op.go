package ot

import (
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidOperation is returned when an operation fails validation.
// It is always wrapped with a description of the offending field.
var ErrInvalidOperation = errors.New("invalid operation")

// Kind identifies the type of text mutation an operation performs.
type Kind string

const (
	// OpInsert inserts Text at Position.
	OpInsert Kind = "insert"

	// OpDelete removes Length characters starting at Position.
	OpDelete Kind = "delete"

	// OpReplace removes Length characters starting at Position and inserts
	// Text in their place.
	OpReplace Kind = "replace"
)

// Operation is a single text mutation against one file. Operations are
// immutable values: Transform returns adjusted copies and never modifies
// its arguments.
type Operation struct {
	// ID uniquely identifies the operation. IDs are ULIDs, so sorting them
	// lexically matches submission order closely enough for log inspection.
	ID string `json:"id"`

	// FilePath is the session-relative path of the file being edited.
	FilePath string `json:"file_path"`

	// Kind is the mutation type: insert, delete, or replace.
	Kind Kind `json:"kind"`

	// Position is the character offset the mutation applies at.
	Position int `json:"position"`

	// Length is the number of characters removed (delete and replace only).
	Length int `json:"length,omitempty"`

	// Text is the inserted content (insert and replace only).
	Text string `json:"text,omitempty"`

	// BaseVersion is the file version the sender believed was current when
	// it generated the operation. It determines how far Transform rebases.
	BaseVersion int64 `json:"base_version"`

	// ParticipantID identifies the submitting participant.
	ParticipantID string `json:"participant_id"`
}

// NewOperationID returns a fresh ULID for tagging an operation.
func NewOperationID() string {
	return ulid.Make().String()
}

// Validate checks an operation's shape before it may be transformed or
// applied. Malformed operations are rejected here so Transform can assume
// well-formed input. The returned error wraps [ErrInvalidOperation].
func Validate(op Operation) error {
	if op.FilePath == "" {
		return fmt.Errorf("%w: empty file path", ErrInvalidOperation)
	}
	if op.Position < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidOperation, op.Position)
	}
	if op.BaseVersion < 0 {
		return fmt.Errorf("%w: negative base version %d", ErrInvalidOperation, op.BaseVersion)
	}
	switch op.Kind {
	case OpInsert:
		if op.Text == "" {
			return fmt.Errorf("%w: insert without text", ErrInvalidOperation)
		}
	case OpDelete:
		if op.Length <= 0 {
			return fmt.Errorf("%w: delete of length %d", ErrInvalidOperation, op.Length)
		}
	case OpReplace:
		if op.Length < 0 {
			return fmt.Errorf("%w: replace of length %d", ErrInvalidOperation, op.Length)
		}
		if op.Length == 0 && op.Text == "" {
			return fmt.Errorf("%w: replace with nothing to do", ErrInvalidOperation)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, op.Kind)
	}
	return nil
}

// Apply applies op to content and returns the new text. Positions beyond
// the current document bounds are an error here, not a clamp: by the time
// an operation is applied it has been transformed against every accepted
// operation, so out-of-bounds coordinates indicate a protocol violation.
func Apply(content string, op Operation) (string, error) {
	switch op.Kind {
	case OpInsert:
		if op.Position > len(content) {
			return "", fmt.Errorf("%w: insert at %d beyond length %d", ErrInvalidOperation, op.Position, len(content))
		}
		return content[:op.Position] + op.Text + content[op.Position:], nil
	case OpDelete:
		if op.Position+op.Length > len(content) {
			return "", fmt.Errorf("%w: delete [%d,%d) beyond length %d", ErrInvalidOperation, op.Position, op.Position+op.Length, len(content))
		}
		return content[:op.Position] + content[op.Position+op.Length:], nil
	case OpReplace:
		if op.Position+op.Length > len(content) {
			return "", fmt.Errorf("%w: replace [%d,%d) beyond length %d", ErrInvalidOperation, op.Position, op.Position+op.Length, len(content))
		}
		return content[:op.Position] + op.Text + content[op.Position+op.Length:], nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, op.Kind)
	}
}

// InsertLen returns the number of characters op adds to the document.
func (op Operation) InsertLen() int {
	switch op.Kind {
	case OpInsert, OpReplace:
		return len(op.Text)
	default:
		return 0
	}
}

// DeleteLen returns the number of characters op removes from the document.
func (op Operation) DeleteLen() int {
	switch op.Kind {
	case OpDelete, OpReplace:
		return op.Length
	default:
		return 0
	}
}
