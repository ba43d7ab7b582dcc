package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ten-exorcism/backend/internal/session"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]session.GameSession
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]session.GameSession),
	}
}

// CreateSession creates a new session
func (m *MemoryStore) CreateSession(ctx context.Context, s *session.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.SessionID]; exists {
		return ErrSessionExists
	}

	m.sessions[s.SessionID] = s.Clone()
	return nil
}

// GetSession retrieves a session by ID
func (m *MemoryStore) GetSession(ctx context.Context, id string) (*session.GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}

	out := s.Clone()
	return &out, nil
}

// UpdateSession replaces an existing session
func (m *MemoryStore) UpdateSession(ctx context.Context, s *session.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.SessionID]; !exists {
		return ErrSessionNotFound
	}

	m.sessions[s.SessionID] = s.Clone()
	return nil
}

// DeleteSession deletes a session
func (m *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// ListCompleted returns finalized sessions, oldest end time first
func (m *MemoryStore) ListCompleted(ctx context.Context, limit int) ([]*session.GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*session.GameSession
	for _, s := range m.sessions {
		if !s.IsComplete {
			continue
		}
		out := s.Clone()
		sessions = append(sessions, &out)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].EndTime != sessions[j].EndTime {
			return sessions[i].EndTime < sessions[j].EndTime
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
