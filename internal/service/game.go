package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ten-exorcism/backend/internal/engine"
	"github.com/ten-exorcism/backend/internal/session"
	"github.com/ten-exorcism/backend/internal/store"
	"github.com/ten-exorcism/backend/pkg/logger"
)

// ErrRoundExpired is returned for a selection that arrives after the round
// timer ran out. The session is finalized with the score reached so far.
var ErrRoundExpired = errors.New("round time is over")

// GameOverReason says why a round ended.
type GameOverReason string

const (
	ReasonNone     GameOverReason = ""
	ReasonNoMoves  GameOverReason = "no_valid_moves"
	ReasonTimer    GameOverReason = "timer"
	ReasonFinished GameOverReason = "finished"
)

// Options tunes a GameService.
type Options struct {
	RoundDuration time.Duration
	VerifyWorkers int
	// Now and Seed default to the wall clock and engine.GenerateSeed.
	Now  func() time.Time
	Seed func() uint32
}

// Round is a snapshot of a session together with the board and score its
// log replays to.
type Round struct {
	Session       session.GameSession
	Board         engine.Board
	Score         int
	HasValidMoves bool
	EndsAt        time.Time
}

// SelectionOutcome is the result of one player selection.
type SelectionOutcome struct {
	Selection   engine.Selection
	Result      engine.ValidationResult
	ScoreGained int
	Round       Round
	GameOver    bool
	Reason      GameOverReason
}

// GameService drives rounds on top of a session store. It holds no board
// state: the live board is always rebuilt from the stored seed and log.
type GameService struct {
	store         store.Store
	logger        *logger.Logger
	roundDuration time.Duration
	verifyWorkers int
	now           func() time.Time
	seed          func() uint32

	// locks serializes writers to one session within this process. An
	// entry lives only while a request for that id holds or waits on it.
	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// NewGameService creates a new game service
func NewGameService(st store.Store, log *logger.Logger, opts Options) *GameService {
	if opts.RoundDuration <= 0 {
		opts.RoundDuration = 120 * time.Second
	}
	if opts.VerifyWorkers <= 0 {
		opts.VerifyWorkers = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Seed == nil {
		opts.Seed = engine.GenerateSeed
	}
	return &GameService{
		store:         st,
		logger:        log,
		roundDuration: opts.RoundDuration,
		verifyWorkers: opts.VerifyWorkers,
		now:           opts.Now,
		seed:          opts.Seed,
		locks:         make(map[string]*sessionLock),
	}
}

// StartGame draws a fresh seed and opens a session for the board it builds.
func (s *GameService) StartGame(ctx context.Context) (*Round, error) {
	seed := s.seed()
	gs := session.New(seed, s.now())

	board := engine.NewBoardFromSeed(seed)
	moves := engine.HasValidMoves(board)
	if !moves {
		// Practically unreachable for a random board; close it rather than
		// hand out a round that cannot be played.
		final, err := session.Finalize(gs, 0, s.now())
		if err != nil {
			return nil, err
		}
		gs = final
	}

	if err := s.store.CreateSession(ctx, &gs); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Round started",
		logger.F("session_id", gs.SessionID),
		logger.F("seed", strconv.FormatUint(uint64(seed), 10)))

	return &Round{
		Session:       gs,
		Board:         board,
		HasValidMoves: moves,
		EndsAt:        s.endsAt(gs),
	}, nil
}

// GetRound loads a session and replays it to its current board and score.
func (s *GameService) GetRound(ctx context.Context, id string) (*Round, error) {
	gs, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	round := s.rebuild(*gs)
	return &round, nil
}

// Select applies the rectangle spanned by two drag corners to the round.
//
// Every selection is logged, valid or not. A valid one clears its cells and
// scores their count; when no rectangle summing to 10 remains afterwards the
// round is finalized. A selection after the timer ran out finalizes the round
// and fails with ErrRoundExpired.
func (s *GameService) Select(ctx context.Context, id string, startRow, startCol, endRow, endCol int) (*SelectionOutcome, error) {
	unlock := s.lock(id)
	defer unlock()

	gs, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if gs.IsComplete {
		return nil, session.ErrSessionComplete
	}

	now := s.now()
	board, score := session.Rebuild(*gs)

	if !now.Before(s.endsAt(*gs)) {
		if _, err := s.finalize(ctx, *gs, score, now, ReasonTimer); err != nil {
			return nil, err
		}
		return nil, ErrRoundExpired
	}

	sel := engine.CalculateSelectionBounds(startRow, startCol, endRow, endCol)
	result := engine.ValidateSelection(board, sel)
	gained := engine.CalculateScoreIncrement(board, sel)

	updated, err := session.LogAction(*gs, sel, session.ResultOf(result), gained, now)
	if err != nil {
		return nil, err
	}
	if result.IsValid {
		board = engine.ExecuteExorcism(board, sel)
		score += gained
	}

	outcome := &SelectionOutcome{
		Selection:   sel,
		Result:      result,
		ScoreGained: gained,
	}

	moves := engine.HasValidMoves(board)
	if !moves {
		final, err := s.finalize(ctx, updated, score, now, ReasonNoMoves)
		if err != nil {
			return nil, err
		}
		outcome.GameOver = true
		outcome.Reason = ReasonNoMoves
		outcome.Round = Round{Session: final, Board: board, Score: score, EndsAt: s.endsAt(final)}
		return outcome, nil
	}

	if err := s.store.UpdateSession(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	outcome.Round = Round{Session: updated, Board: board, Score: score, HasValidMoves: true, EndsAt: s.endsAt(updated)}
	return outcome, nil
}

// Finish finalizes a running round with its replayed score.
func (s *GameService) Finish(ctx context.Context, id string) (*Round, error) {
	unlock := s.lock(id)
	defer unlock()

	gs, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if gs.IsComplete {
		return nil, session.ErrSessionComplete
	}

	board, score := session.Rebuild(*gs)
	final, err := s.finalize(ctx, *gs, score, s.now(), ReasonFinished)
	if err != nil {
		return nil, err
	}
	return &Round{
		Session:       final,
		Board:         board,
		Score:         score,
		HasValidMoves: engine.HasValidMoves(board),
		EndsAt:        s.endsAt(final),
	}, nil
}

func (s *GameService) finalize(ctx context.Context, gs session.GameSession, score int, now time.Time, reason GameOverReason) (session.GameSession, error) {
	final, err := session.Finalize(gs, score, now)
	if err != nil {
		return gs, err
	}
	if err := s.store.UpdateSession(ctx, &final); err != nil {
		return gs, fmt.Errorf("failed to finalize session: %w", err)
	}

	s.logger.Info("Round finished",
		logger.F("session_id", final.SessionID),
		logger.F("score", strconv.Itoa(score)),
		logger.F("actions", strconv.Itoa(len(final.Actions))),
		logger.F("reason", string(reason)))
	return final, nil
}

func (s *GameService) rebuild(gs session.GameSession) Round {
	board, score := session.Rebuild(gs)
	return Round{
		Session:       gs,
		Board:         board,
		Score:         score,
		HasValidMoves: engine.HasValidMoves(board),
		EndsAt:        s.endsAt(gs),
	}
}

func (s *GameService) endsAt(gs session.GameSession) time.Time {
	return gs.Started().Add(s.roundDuration)
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// lock acquires the per-session mutex for id and returns its release. The
// last release drops the entry, so ids that are missing, finished or
// abandoned leave nothing behind.
func (s *GameService) lock(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

func (s *GameService) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.locks)
}
