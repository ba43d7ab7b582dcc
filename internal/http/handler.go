package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ten-exorcism/backend/internal/engine"
	"github.com/ten-exorcism/backend/internal/service"
	"github.com/ten-exorcism/backend/internal/session"
	"github.com/ten-exorcism/backend/internal/store"
	"github.com/ten-exorcism/backend/internal/types"
	"github.com/ten-exorcism/backend/pkg/logger"
)

const (
	// maxBodyBytes bounds request bodies; a full session log is well under it.
	maxBodyBytes = 4 << 20
	// maxBatchSize bounds the sessions accepted by one batch verification.
	maxBatchSize = 1000
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	game   *service.GameService
	logger *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(game *service.GameService, log *logger.Logger) *Handler {
	return &Handler{
		game:   game,
		logger: log,
	}
}

// Routes sets up all HTTP routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", h.CreateSession)
		r.Get("/sessions/{id}", h.GetSession)
		r.Get("/sessions/{id}/board", h.GetBoard)
		r.Post("/sessions/{id}/selections", h.Select)
		r.Post("/sessions/{id}/finish", h.Finish)
		r.Get("/sessions/{id}/verify", h.VerifySession)
		r.Post("/verify", h.VerifySubmitted)
		r.Post("/verify/batch", h.VerifyBatch)
		r.Get("/boards/{seed}", h.GetSeedBoard)
	})

	r.Get("/healthz", h.Health)

	return r
}

// Health handles health check requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateSession handles POST /v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	round, err := h.game.StartGame(ctx)
	if err != nil {
		h.respondServiceError(w, err, "failed to create session")
		return
	}

	h.respondJSON(w, http.StatusCreated, types.CreateSessionResponse{
		Session:     round.Session,
		Board:       round.Board,
		RoundEndsAt: round.EndsAt.UTC().Format(time.RFC3339),
	})
}

// GetSession handles GET /v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	round, err := h.game.GetRound(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "failed to get session")
		return
	}

	h.respondJSON(w, http.StatusOK, round.Session)
}

// GetBoard handles GET /v1/sessions/{id}/board
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	round, err := h.game.GetRound(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "failed to get board")
		return
	}

	h.respondJSON(w, http.StatusOK, types.BoardResponse{
		Board:         round.Board,
		Score:         round.Score,
		HasValidMoves: round.HasValidMoves,
		IsComplete:    round.Session.IsComplete,
		RoundEndsAt:   round.EndsAt.UTC().Format(time.RFC3339),
	})
}

// Select handles POST /v1/sessions/{id}/selections
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req types.SelectionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.StartRow == nil || req.StartCol == nil || req.EndRow == nil || req.EndCol == nil {
		h.respondError(w, http.StatusBadRequest, "invalid selection", "start_row, start_col, end_row and end_col are required")
		return
	}

	outcome, err := h.game.Select(ctx, chi.URLParam(r, "id"), *req.StartRow, *req.StartCol, *req.EndRow, *req.EndCol)
	if err != nil {
		h.respondServiceError(w, err, "failed to apply selection")
		return
	}

	h.respondJSON(w, http.StatusOK, types.SelectionResponse{
		Selection:      outcome.Selection,
		Result:         outcome.Result,
		ScoreGained:    outcome.ScoreGained,
		Score:          outcome.Round.Score,
		Board:          outcome.Round.Board,
		GameOver:       outcome.GameOver,
		GameOverReason: string(outcome.Reason),
	})
}

// Finish handles POST /v1/sessions/{id}/finish
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	round, err := h.game.Finish(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "failed to finish session")
		return
	}

	h.respondJSON(w, http.StatusOK, types.FinishResponse{
		Session: round.Session,
		Board:   round.Board,
		Score:   round.Score,
	})
}

// VerifySession handles GET /v1/sessions/{id}/verify
func (h *Handler) VerifySession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	v, err := h.game.Verify(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "failed to verify session")
		return
	}

	h.respondJSON(w, http.StatusOK, toVerifyResponse(*v))
}

// VerifySubmitted handles POST /v1/verify. The body is a complete session
// record produced by a client; nothing is read from or written to the store.
func (h *Handler) VerifySubmitted(w http.ResponseWriter, r *http.Request) {
	var gs session.GameSession
	if err := h.decode(w, r, &gs); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, toVerifyResponse(service.VerifySession(gs)))
}

// VerifyBatch handles POST /v1/verify/batch
func (h *Handler) VerifyBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var sessions []session.GameSession
	if err := h.decode(w, r, &sessions); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(sessions) > maxBatchSize {
		h.respondError(w, http.StatusBadRequest, "batch too large",
			"at most "+strconv.Itoa(maxBatchSize)+" sessions per batch")
		return
	}

	results, err := h.game.VerifyBatch(ctx, sessions)
	if err != nil {
		h.respondServiceError(w, err, "failed to verify batch")
		return
	}

	resp := types.VerifyBatchResponse{Results: make([]types.VerifyResponse, len(results))}
	for i, v := range results {
		resp.Results[i] = toVerifyResponse(v)
		if v.Verified {
			resp.Verified++
		} else {
			resp.Failed++
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetSeedBoard handles GET /v1/boards/{seed}
func (h *Handler) GetSeedBoard(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseUint(chi.URLParam(r, "seed"), 10, 32)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid seed", "seed must be an unsigned 32-bit integer")
		return
	}

	board := engine.NewBoardFromSeed(uint32(seed))
	h.respondJSON(w, http.StatusOK, types.SeedBoardResponse{
		Seed:          uint32(seed),
		Board:         board,
		HasValidMoves: engine.HasValidMoves(board),
	})
}

func toVerifyResponse(v service.Verification) types.VerifyResponse {
	return types.VerifyResponse{
		SessionID:     v.SessionID,
		Verified:      v.Verified,
		IsComplete:    v.IsComplete,
		ClaimedScore:  v.ClaimedScore,
		ReplayedScore: v.ReplayedScore,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// respondServiceError maps service and store errors to status codes
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, "session not found", err.Error())
	case errors.Is(err, session.ErrSessionComplete):
		h.respondError(w, http.StatusConflict, "session complete", err.Error())
	case errors.Is(err, service.ErrRoundExpired):
		h.respondError(w, http.StatusConflict, "round expired", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.respondError(w, http.StatusServiceUnavailable, "request timed out", err.Error())
	default:
		h.logger.Error(fallback, logger.F("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, fallback, err.Error())
	}
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *Handler) respondError(w http.ResponseWriter, status int, errorMsg, message string) {
	h.respondJSON(w, status, types.ErrorResponse{
		Error:   errorMsg,
		Message: message,
	})
}
