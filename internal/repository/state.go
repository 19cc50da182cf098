package repository

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrTxConflict   = errors.New("state kept changing during transaction")
)

// RollFunc - completes the current game, records the winner in the session and returns the history entry.
// It may run more than once if the stored state changes underneath it.
type RollFunc func(game *entity.Game, session *entity.Session) (entity.HistoryEntry, error)

// StateRepository holds the current game, the session counters and the game history.
type StateRepository interface {
	GetCurrentGame(ctx context.Context) (*entity.Game, error)
	SaveCurrentGame(ctx context.Context, game *entity.Game) error

	GetSession(ctx context.Context) (*entity.Session, error)

	// ResetSession - replaces the session and the current game together.
	// Returns ErrGameNotFound when there is no current game.
	ResetSession(ctx context.Context, session *entity.Session, game *entity.Game) error

	// RecordRoll - loads the current game and session, applies roll and stores both with the new history entry,
	// all as one atomic step. Returns ErrGameNotFound when there is no current game.
	RecordRoll(ctx context.Context, roll RollFunc) error

	// GetHistory - returns up to limit most recent entries, newest first.
	GetHistory(ctx context.Context, limit int) ([]entity.HistoryEntry, error)
}
