package store

import "github.com/google/uuid"

// NewID returns a random UUID for keying durable records.
func NewID() string {
	return uuid.NewString()
}
