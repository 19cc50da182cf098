package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/internal/repository"
)

type stateRepo interface {
	SaveCurrentGame(ctx context.Context, game *entity.Game) error
	GetSession(ctx context.Context) (*entity.Session, error)
	ResetSession(ctx context.Context, session *entity.Session, game *entity.Game) error
	RecordRoll(ctx context.Context, roll repository.RollFunc) error
	GetHistory(ctx context.Context, limit int) ([]entity.HistoryEntry, error)
}

type gameMetrics interface {
	GameStarted()
	SessionReset()
	RollCompleted(winner string)
}

// GameManager owns the current game, the session counters and the history.
// Operations are serialized by a lock within the process; the repository keeps
// each roll atomic across processes sharing the same storage.
type GameManager struct {
	logger *slog.Logger

	mu           sync.Mutex
	stateRepo    stateRepo
	source       dice.Source
	metrics      gameMetrics
	historyLimit int

	newID func() string
	now   func() time.Time
}

func NewGameManager(logger *slog.Logger, stateRepo stateRepo, source dice.Source, metrics gameMetrics, historyLimit int) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		stateRepo:    stateRepo,
		source:       source,
		metrics:      metrics,
		historyLimit: historyLimit,

		newID: uuid.NewString,
		now:   time.Now,
	}
}

// StartGame - replaces the current game with a new one. Session and history are untouched.
func (that *GameManager) StartGame(ctx context.Context) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game := entity.NewGame(that.newID(), that.now())

	if err := that.stateRepo.SaveCurrentGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	that.metrics.GameStarted()
	that.logger.Debug("game started", "game_id", game.ID)

	return game, nil
}

// ResetSession - zeroes the session counters and starts a new game.
func (that *GameManager) ResetSession(ctx context.Context) (*entity.Game, *entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game := entity.NewGame(that.newID(), that.now())
	session := entity.NewSession()

	err := that.stateRepo.ResetSession(ctx, session, game)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to reset session: %w", err)
	}

	that.metrics.SessionReset()
	that.logger.Info("session reset", "game_id", game.ID)

	return game, session, nil
}

// Roll - rolls a pair of dice for each side and records the outcome.
// gameID is informational only; the roll always applies to the current game.
func (that *GameManager) Roll(ctx context.Context, gameID string) (*entity.RollResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Roll")

	var result entity.RollResult

	err := that.stateRepo.RecordRoll(ctx, func(game *entity.Game, session *entity.Session) (entity.HistoryEntry, error) {
		if gameID != "" && gameID != game.ID {
			log.Debug("roll requested for a game that is not current", "requested_id", gameID, "current_id", game.ID)
		}

		playerDice := dice.RollPair(that.source)
		computerDice := dice.RollPair(that.source)

		winner := game.Complete(playerDice, computerDice)
		session.Record(winner)

		result = entity.RollResult{
			PlayerDice:    playerDice,
			ComputerDice:  computerDice,
			Winner:        winner,
			PlayerTotal:   game.PlayerScore,
			ComputerTotal: game.ComputerScore,
		}

		return entity.NewHistoryEntry(game, playerDice, computerDice, that.now()), nil
	})
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, fmt.Errorf("failed to record roll: %w", err)
	}

	that.metrics.RollCompleted(result.Winner)
	log.Debug("dice rolled", "winner", result.Winner,
		"player_total", result.PlayerTotal, "computer_total", result.ComputerTotal)

	return &result, nil
}

func (that *GameManager) GetStats(ctx context.Context) (*entity.Stats, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.stateRepo.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	stats := session.Stats()

	return &stats, nil
}

// GetHistory - the most recent completed games, newest first.
func (that *GameManager) GetHistory(ctx context.Context) ([]entity.HistoryEntry, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	history, err := that.stateRepo.GetHistory(ctx, that.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return history, nil
}
