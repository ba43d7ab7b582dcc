// Package session records the attempts made during one round and re-derives
// the round's score from the board seed alone.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ten-exorcism/backend/internal/engine"
)

// ErrSessionComplete is returned when appending to or finalizing a session
// that has already been finalized.
var ErrSessionComplete = errors.New("session is already complete")

// Result is the logged outcome of one attempt.
type Result string

const (
	ResultValid   Result = "valid"
	ResultInvalid Result = "invalid"
)

// ResultOf maps a validation outcome to its logged form.
func ResultOf(v engine.ValidationResult) Result {
	if v.IsValid {
		return ResultValid
	}
	return ResultInvalid
}

// ActionType identifies the kind of a logged action.
type ActionType string

// ActionSelect is a rectangle selection released by the player.
const ActionSelect ActionType = "SELECT"

// GameAction is one logged attempt. Actions are never modified once appended.
type GameAction struct {
	Type        ActionType       `json:"type,omitempty"`
	Selection   engine.Selection `json:"selection"`
	TimestampMs int64            `json:"timestampMs"` // since StartTime
	Result      Result           `json:"result"`
	ScoreGained int              `json:"scoreGained"`
}

// GameSession is the seed plus the ordered log of every attempt in a round.
// Times are Unix milliseconds.
type GameSession struct {
	SessionID  string       `json:"sessionId"`
	BoardSeed  uint32       `json:"boardSeed"`
	StartTime  int64        `json:"startTime"`
	Actions    []GameAction `json:"actions"`
	FinalScore int          `json:"finalScore"`
	EndTime    int64        `json:"endTime"`
	IsComplete bool         `json:"isComplete"`
}

// NewID returns a fresh session id.
func NewID() string {
	return "sess_" + uuid.New().String()
}

// New starts a session for the board built from seed.
func New(seed uint32, now time.Time) GameSession {
	return GameSession{
		SessionID: NewID(),
		BoardSeed: seed,
		StartTime: now.UnixMilli(),
		Actions:   []GameAction{},
	}
}

// LogAction returns a copy of s with one more action appended. Every attempt
// must be logged, including invalid ones that score nothing.
func LogAction(s GameSession, sel engine.Selection, result Result, scoreGained int, now time.Time) (GameSession, error) {
	if s.IsComplete {
		return s, ErrSessionComplete
	}

	actions := make([]GameAction, len(s.Actions), len(s.Actions)+1)
	copy(actions, s.Actions)
	s.Actions = append(actions, GameAction{
		Type:        ActionSelect,
		Selection:   sel,
		TimestampMs: max(now.UnixMilli()-s.StartTime, 0),
		Result:      result,
		ScoreGained: scoreGained,
	})
	return s, nil
}

// Finalize stamps the final score and end time. A session is finalized once;
// afterwards it is read-only and becomes the unit of verification.
func Finalize(s GameSession, finalScore int, now time.Time) (GameSession, error) {
	if s.IsComplete {
		return s, ErrSessionComplete
	}

	s.Actions = cloneActions(s.Actions)
	s.FinalScore = finalScore
	s.EndTime = now.UnixMilli()
	s.IsComplete = true
	return s, nil
}

// Clone returns a deep copy of s.
func (s GameSession) Clone() GameSession {
	s.Actions = cloneActions(s.Actions)
	return s
}

// Started returns the session start as a time.
func (s GameSession) Started() time.Time {
	return time.UnixMilli(s.StartTime)
}

// Ended returns the finalization time, zero while the round is running.
func (s GameSession) Ended() time.Time {
	if !s.IsComplete {
		return time.Time{}
	}
	return time.UnixMilli(s.EndTime)
}

func cloneActions(actions []GameAction) []GameAction {
	out := make([]GameAction, len(actions))
	copy(out, actions)
	return out
}
