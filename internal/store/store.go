package store

import (
	"context"

	"github.com/ten-exorcism/backend/internal/session"
)

// Store defines the interface for session storage.
// This abstraction allows swapping implementations (memory, Redis, Cassandra, SQLite)
// without changing the rest of the codebase.
//
// Implementations store and return copies: mutating a session after handing
// it to the store, or after reading it back, never changes the stored record.
type Store interface {
	// CreateSession creates a new session
	CreateSession(ctx context.Context, s *session.GameSession) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, id string) (*session.GameSession, error)

	// UpdateSession replaces an existing session
	UpdateSession(ctx context.Context, s *session.GameSession) error

	// DeleteSession deletes a session (optional, for cleanup)
	DeleteSession(ctx context.Context, id string) error

	// ListCompleted returns up to limit finalized sessions, for audits.
	// A limit <= 0 means no limit. Order is backend-defined; with a limit
	// the subset returned may be arbitrary.
	ListCompleted(ctx context.Context, limit int) ([]*session.GameSession, error)

	// Close releases the backend connection
	Close() error
}

// Errors
var (
	ErrSessionNotFound = &StoreError{Message: "session not found"}
	ErrSessionExists   = &StoreError{Message: "session already exists"}
)

// StoreError represents a storage error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
