package cassandra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/ten-exorcism/backend/internal/session"
	"github.com/ten-exorcism/backend/internal/store"
	"github.com/ten-exorcism/backend/pkg/logger"
)

const sessionColumns = "session_id, board_seed, start_time, actions, final_score, end_time, is_complete"

// Repository implements store.Store using Cassandra
type Repository struct {
	client  *Client
	logger  *logger.Logger
	timeout time.Duration
}

var _ store.Store = (*Repository)(nil)

// NewRepository creates a new Cassandra-based session repository
func NewRepository(client *Client, log *logger.Logger, timeout time.Duration) *Repository {
	return &Repository{
		client:  client,
		logger:  log,
		timeout: timeout,
	}
}

// CreateSession inserts a new session; lightweight transaction guards duplicates
func (r *Repository) CreateSession(ctx context.Context, gs *session.GameSession) error {
	actions, err := json.Marshal(gs.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.sessions (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		IF NOT EXISTS`, r.client.Keyspace(), sessionColumns)

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := queryCtx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	applied, err := r.client.Session().Query(query,
		gs.SessionID,
		int64(gs.BoardSeed),
		gs.StartTime,
		string(actions),
		gs.FinalScore,
		gs.EndTime,
		gs.IsComplete,
	).WithContext(queryCtx).MapScanCAS(map[string]interface{}{})

	if err != nil {
		r.logger.Error("Failed to create session in Cassandra",
			logger.F("session_id", gs.SessionID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to create session: %w", err)
	}

	if !applied {
		return store.ErrSessionExists
	}

	r.logger.Debug("Session created", logger.F("session_id", gs.SessionID))
	return nil
}

// GetSession retrieves a session by ID
func (r *Repository) GetSession(ctx context.Context, id string) (*session.GameSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.sessions
		WHERE session_id = ?`, sessionColumns, r.client.Keyspace())

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := queryCtx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var row sessionRow
	err := r.client.Session().Query(query, id).WithContext(queryCtx).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, store.ErrSessionNotFound
		}
		r.logger.Error("Failed to get session from Cassandra",
			logger.F("session_id", id),
			logger.F("error", err.Error()))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return row.toSession()
}

// UpdateSession replaces an existing session
func (r *Repository) UpdateSession(ctx context.Context, gs *session.GameSession) error {
	actions, err := json.Marshal(gs.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s.sessions
		SET board_seed = ?, start_time = ?, actions = ?, final_score = ?, end_time = ?, is_complete = ?
		WHERE session_id = ?
		IF EXISTS`, r.client.Keyspace())

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := queryCtx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	applied, err := r.client.Session().Query(query,
		int64(gs.BoardSeed),
		gs.StartTime,
		string(actions),
		gs.FinalScore,
		gs.EndTime,
		gs.IsComplete,
		gs.SessionID,
	).WithContext(queryCtx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		r.logger.Error("Failed to update session in Cassandra",
			logger.F("session_id", gs.SessionID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to update session: %w", err)
	}

	if !applied {
		return store.ErrSessionNotFound
	}

	r.logger.Debug("Session updated",
		logger.F("session_id", gs.SessionID),
		logger.F("actions", fmt.Sprintf("%d", len(gs.Actions))),
		logger.F("complete", fmt.Sprintf("%t", gs.IsComplete)))
	return nil
}

// DeleteSession deletes a session
func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s.sessions WHERE session_id = ?`, r.client.Keyspace())

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Session().Query(query, id).WithContext(queryCtx).Exec(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListCompleted returns finalized sessions using the is_complete index.
// Cassandra does not order across partitions, so the order is unspecified.
func (r *Repository) ListCompleted(ctx context.Context, limit int) ([]*session.GameSession, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.sessions
		WHERE is_complete = true`, sessionColumns, r.client.Keyspace())
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	iter := r.client.Session().Query(query, args...).WithContext(queryCtx).Iter()

	var sessions []*session.GameSession
	var row sessionRow
	for iter.Scan(row.dest()...) {
		gs, err := row.toSession()
		if err != nil {
			iter.Close()
			return nil, err
		}
		sessions = append(sessions, gs)
	}

	if err := iter.Close(); err != nil {
		r.logger.Error("Failed to list completed sessions from Cassandra", logger.F("error", err.Error()))
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}

	return sessions, nil
}

// Close closes the underlying client
func (r *Repository) Close() error {
	r.client.Close()
	return nil
}

// withTimeout applies the configured timeout unless ctx already has a deadline
func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

type sessionRow struct {
	id         string
	seed       int64
	startTime  int64
	actions    string
	finalScore int
	endTime    int64
	isComplete bool
}

func (row *sessionRow) dest() []interface{} {
	return []interface{}{&row.id, &row.seed, &row.startTime, &row.actions, &row.finalScore, &row.endTime, &row.isComplete}
}

func (row *sessionRow) toSession() (*session.GameSession, error) {
	gs := &session.GameSession{
		SessionID:  row.id,
		BoardSeed:  uint32(row.seed),
		StartTime:  row.startTime,
		FinalScore: row.finalScore,
		EndTime:    row.endTime,
		IsComplete: row.isComplete,
	}
	if err := json.Unmarshal([]byte(row.actions), &gs.Actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions for %s: %w", row.id, err)
	}
	return gs, nil
}
