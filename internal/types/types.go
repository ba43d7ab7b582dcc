package types

import (
	"github.com/ten-exorcism/backend/internal/engine"
	"github.com/ten-exorcism/backend/internal/session"
)

// CreateSessionResponse represents the response when starting a round
type CreateSessionResponse struct {
	Session     session.GameSession `json:"session"`
	Board       engine.Board        `json:"board"`
	RoundEndsAt string              `json:"round_ends_at"` // RFC3339
}

// BoardResponse represents the current board of a session
type BoardResponse struct {
	Board         engine.Board `json:"board"`
	Score         int          `json:"score"`
	HasValidMoves bool         `json:"has_valid_moves"`
	IsComplete    bool         `json:"is_complete"`
	RoundEndsAt   string       `json:"round_ends_at"` // RFC3339
}

// SelectionRequest represents the two drag corners of a selection.
// Corners may be given in any order.
type SelectionRequest struct {
	StartRow *int `json:"start_row"`
	StartCol *int `json:"start_col"`
	EndRow   *int `json:"end_row"`
	EndCol   *int `json:"end_col"`
}

// SelectionResponse represents the outcome of one selection
type SelectionResponse struct {
	Selection      engine.Selection        `json:"selection"`
	Result         engine.ValidationResult `json:"result"`
	ScoreGained    int                     `json:"score_gained"`
	Score          int                     `json:"score"`
	Board          engine.Board            `json:"board"`
	GameOver       bool                    `json:"game_over"`
	GameOverReason string                  `json:"game_over_reason,omitempty"`
}

// FinishResponse represents a finalized session
type FinishResponse struct {
	Session session.GameSession `json:"session"`
	Board   engine.Board        `json:"board"`
	Score   int                 `json:"score"`
}

// VerifyResponse represents the audit verdict for one session
type VerifyResponse struct {
	SessionID     string `json:"session_id"`
	Verified      bool   `json:"verified"`
	IsComplete    bool   `json:"is_complete"`
	ClaimedScore  int    `json:"claimed_score"`
	ReplayedScore int    `json:"replayed_score"`
}

// VerifyBatchResponse represents verdicts for a submitted batch, in input order
type VerifyBatchResponse struct {
	Results  []VerifyResponse `json:"results"`
	Verified int              `json:"verified"`
	Failed   int              `json:"failed"`
}

// SeedBoardResponse represents the board a seed generates
type SeedBoardResponse struct {
	Seed          uint32       `json:"seed"`
	Board         engine.Board `json:"board"`
	HasValidMoves bool         `json:"has_valid_moves"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
