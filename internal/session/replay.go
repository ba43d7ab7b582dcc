package session

import "github.com/ten-exorcism/backend/internal/engine"

// Step is one action as seen by the replay.
type Step struct {
	Index  int                     `json:"index"`
	Action GameAction              `json:"action"`
	Result engine.ValidationResult `json:"result"`
	Score  int                     `json:"score"` // running total after this action
}

// Walk replays the log of s against the board rebuilt from its seed and calls
// fn after every action. Validity is recomputed from the replay-local board;
// the logged result and score fields are never trusted. Actions of unknown
// type are skipped.
func Walk(s GameSession, fn func(Step)) (engine.Board, int) {
	board := engine.NewBoardFromSeed(s.BoardSeed)
	score := 0

	for i, action := range s.Actions {
		if action.Type != ActionSelect && action.Type != "" {
			continue
		}

		result := engine.ValidateSelection(board, action.Selection)
		if result.IsValid {
			board = engine.ExecuteExorcism(board, action.Selection)
			score += result.TileCount
		}
		if fn != nil {
			fn(Step{Index: i, Action: action, Result: result, Score: score})
		}
	}
	return board, score
}

// Rebuild returns the board and score reached after replaying every action.
func Rebuild(s GameSession) (engine.Board, int) {
	return Walk(s, nil)
}

// Replay independently recomputes the score of s.
func Replay(s GameSession) int {
	_, score := Rebuild(s)
	return score
}

// Verify reports whether s is finalized and its claimed final score matches
// the replayed one. A false result is a verdict, not an error; callers decide
// what to do with a session that fails.
func Verify(s GameSession) bool {
	if !s.IsComplete {
		return false
	}
	return Replay(s) == s.FinalScore
}
