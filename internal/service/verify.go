package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ten-exorcism/backend/internal/session"
	"github.com/ten-exorcism/backend/pkg/logger"
)

// Verification is the audit verdict for one session.
type Verification struct {
	SessionID     string
	Verified      bool
	IsComplete    bool
	ClaimedScore  int
	ReplayedScore int
}

// VerifySession replays gs from its seed and compares the result with the
// claimed final score. It touches nothing but gs, so any number of calls may
// run in parallel.
func VerifySession(gs session.GameSession) Verification {
	replayed := session.Replay(gs)
	return Verification{
		SessionID:     gs.SessionID,
		Verified:      gs.IsComplete && replayed == gs.FinalScore,
		IsComplete:    gs.IsComplete,
		ClaimedScore:  gs.FinalScore,
		ReplayedScore: replayed,
	}
}

// Verify loads a stored session and verifies it.
func (s *GameService) Verify(ctx context.Context, id string) (*Verification, error) {
	gs, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	v := VerifySession(*gs)
	s.logVerdict(v)
	return &v, nil
}

// VerifyBatch verifies independent sessions on a fixed pool of workers.
// Results are in input order.
func (s *GameService) VerifyBatch(ctx context.Context, sessions []session.GameSession) ([]Verification, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verify batch: %w", err)
	}

	results := make([]Verification, len(sessions))
	jobs := make(chan int, s.verifyWorkers*2)

	var wg sync.WaitGroup
	for i := 0; i < s.verifyWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = VerifySession(sessions[idx])
			}
		}()
	}

	var cancelErr error
feed:
	for i := range sessions {
		select {
		case jobs <- i:
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if cancelErr != nil {
		return nil, fmt.Errorf("verify batch: %w", cancelErr)
	}

	for _, v := range results {
		s.logVerdict(v)
	}
	return results, nil
}

// AuditCompleted verifies up to limit finalized sessions from the store.
func (s *GameService) AuditCompleted(ctx context.Context, limit int) ([]Verification, error) {
	stored, err := s.store.ListCompleted(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]session.GameSession, len(stored))
	for i, gs := range stored {
		sessions[i] = *gs
	}
	return s.VerifyBatch(ctx, sessions)
}

func (s *GameService) logVerdict(v Verification) {
	if v.Verified {
		s.logger.Debug("Session verified", logger.F("session_id", v.SessionID))
		return
	}
	s.logger.Warn("Session failed verification",
		logger.F("session_id", v.SessionID),
		logger.F("complete", strconv.FormatBool(v.IsComplete)),
		logger.F("claimed_score", strconv.Itoa(v.ClaimedScore)),
		logger.F("replayed_score", strconv.Itoa(v.ReplayedScore)))
}
