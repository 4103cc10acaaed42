package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BatchID identifies the downloads produced by one upload
type BatchID string

// NewBatchID creates a time-ordered identifier using UUID v7
func NewBatchID() BatchID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return BatchID(id.String())
}

// String returns the string representation
func (id BatchID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id BatchID) IsEmpty() bool {
	return id == ""
}

// ParseBatchID validates s as a UUID and returns it in canonical form
func ParseBatchID(s string) (BatchID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("batch ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid batch ID %q: %w", s, err)
	}
	return BatchID(id.String()), nil
}
