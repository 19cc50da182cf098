package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

const (
	maxBodyBytes = 1 << 10

	resetMessage = "Game reset successfully"
)

type gameUseCase interface {
	StartGame(ctx context.Context) (*entity.Game, error)
	ResetSession(ctx context.Context) (*entity.Game, *entity.Session, error)
	Roll(ctx context.Context, gameID string) (*entity.RollResult, error)
	GetStats(ctx context.Context) (*entity.Stats, error)
	GetHistory(ctx context.Context) ([]entity.HistoryEntry, error)
}

type StartResponse struct {
	GameID string `json:"gameId"`
}

type ResetResponse struct {
	Success bool           `json:"success"`
	GameID  string         `json:"gameId"`
	Stats   entity.Session `json:"stats"`
	Message string         `json:"message"`
}

type RollRequest struct {
	GameID string `json:"gameId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func NewHandlers(logger *slog.Logger, game gameUseCase) *Handlers {
	return &Handlers{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

// Routes - builds the HTTP handler. metricsHandler may be nil.
func (that *Handlers) Routes(metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("POST /api/games/start", that.StartGame)
	mux.HandleFunc("POST /api/games/reset", that.ResetGame)
	mux.HandleFunc("POST /api/games/roll", that.RollDice)
	mux.HandleFunc("GET /api/games/history", that.GetHistory)
	mux.HandleFunc("GET /api/games/stats", that.GetStats)

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return withCORS(withLogging(that.logger, mux))
}

func (that *Handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.game.StartGame(r.Context())
	if err != nil {
		that.writeError(w, "StartGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, StartResponse{GameID: game.ID})
}

func (that *Handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	game, session, err := that.game.ResetSession(r.Context())
	if err != nil {
		that.writeError(w, "ResetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, ResetResponse{
		Success: true,
		GameID:  game.ID,
		Stats:   *session,
		Message: resetMessage,
	})
}

func (that *Handlers) RollDice(w http.ResponseWriter, r *http.Request) {
	var req RollRequest

	// the body is optional
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := that.game.Roll(r.Context(), req.GameID)
	if err != nil {
		that.writeError(w, "RollDice", err)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := that.game.GetHistory(r.Context())
	if err != nil {
		that.writeError(w, "GetHistory", err)
		return
	}

	if history == nil {
		history = []entity.HistoryEntry{}
	}

	that.writeJSON(w, http.StatusOK, history)
}

func (that *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.game.GetStats(r.Context())
	if err != nil {
		that.writeError(w, "GetStats", err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Handlers) writeError(w http.ResponseWriter, method string, err error) {
	if errors.Is(err, apperror.ErrNoActiveGame) {
		that.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "No active game found"})
		return
	}

	that.logger.Error("request failed", "method", method, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
