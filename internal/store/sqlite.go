package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ten-exorcism/backend/internal/session"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface on a local SQLite file.
// The action log is kept as a JSON column next to the flat session fields.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			board_seed INTEGER NOT NULL,
			start_time INTEGER NOT NULL,
			actions TEXT NOT NULL DEFAULT '[]',
			final_score INTEGER NOT NULL DEFAULT 0,
			end_time INTEGER NOT NULL DEFAULT 0,
			is_complete INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_completed ON sessions(is_complete, end_time)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// CreateSession inserts a new session
func (s *SQLiteStore) CreateSession(ctx context.Context, gs *session.GameSession) error {
	actions, err := json.Marshal(gs.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, board_seed, start_time, actions, final_score, end_time, is_complete)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`,
		gs.SessionID, int64(gs.BoardSeed), gs.StartTime, string(actions), gs.FinalScore, gs.EndTime, gs.IsComplete,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if n == 0 {
		return ErrSessionExists
	}
	return nil
}

// GetSession retrieves a session by ID
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*session.GameSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, board_seed, start_time, actions, final_score, end_time, is_complete
		FROM sessions
		WHERE session_id = ?`, id)

	gs, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return gs, nil
}

// UpdateSession replaces an existing session
func (s *SQLiteStore) UpdateSession(ctx context.Context, gs *session.GameSession) error {
	actions, err := json.Marshal(gs.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions
		SET board_seed = ?, start_time = ?, actions = ?, final_score = ?, end_time = ?, is_complete = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE session_id = ?`,
		int64(gs.BoardSeed), gs.StartTime, string(actions), gs.FinalScore, gs.EndTime, gs.IsComplete, gs.SessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession deletes a session
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListCompleted returns finalized sessions, oldest end time first
func (s *SQLiteStore) ListCompleted(ctx context.Context, limit int) ([]*session.GameSession, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, board_seed, start_time, actions, final_score, end_time, is_complete
		FROM sessions
		WHERE is_complete = 1
		ORDER BY end_time, session_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.GameSession
	for rows.Next() {
		gs, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, gs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}
	return sessions, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.GameSession, error) {
	var (
		gs      session.GameSession
		seed    int64
		actions string
	)
	if err := row.Scan(&gs.SessionID, &seed, &gs.StartTime, &actions, &gs.FinalScore, &gs.EndTime, &gs.IsComplete); err != nil {
		return nil, err
	}
	gs.BoardSeed = uint32(seed)
	if err := json.Unmarshal([]byte(actions), &gs.Actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
	}
	return &gs, nil
}
