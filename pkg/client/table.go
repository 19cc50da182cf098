package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/transport/rest"
)

const (
	DefaultRollDelay = time.Second

	msgStartFailed   = "Failed to start new game"
	msgRollFailed    = "Failed to roll dice"
	msgResetFailed   = "Failed to reset game"
	msgStatsFailed   = "Failed to fetch game statistics"
	msgHistoryFailed = "Failed to fetch game history"
)

var ErrRollInProgress = errors.New("roll already in progress")

type gameAPI interface {
	StartGame(ctx context.Context) (string, error)
	ResetGame(ctx context.Context) (*rest.ResetResponse, error)
	Roll(ctx context.Context, gameID string) (*entity.RollResult, error)
	GetStats(ctx context.Context) (*entity.Stats, error)
	GetHistory(ctx context.Context) ([]entity.HistoryEntry, error)
}

// View - what the table currently shows.
type View struct {
	GameID       string
	PlayerDice   dice.Pair
	ComputerDice dice.Pair
	Rolling      bool
	Winner       string
	Stats        *entity.Stats
	History      []entity.HistoryEntry
	Error        string
}

// Table mirrors the last server responses for display. It holds no game logic.
type Table struct {
	logger    *slog.Logger
	api       gameAPI
	rollDelay time.Duration

	mu   sync.Mutex
	view View
}

func NewTable(logger *slog.Logger, api gameAPI, rollDelay time.Duration) *Table {
	return &Table{
		logger:    logger.With("component", "table"),
		api:       api,
		rollDelay: rollDelay,
		view: View{
			PlayerDice:   dice.Pair{1, 1},
			ComputerDice: dice.Pair{1, 1},
			History:      []entity.HistoryEntry{},
		},
	}
}

// View - a copy of the current display state.
func (that *Table) View() View {
	that.mu.Lock()
	defer that.mu.Unlock()

	view := that.view
	view.History = append([]entity.HistoryEntry(nil), that.view.History...)
	if that.view.Stats != nil {
		stats := *that.view.Stats
		view.Stats = &stats
	}

	return view
}

// Load - starts a game and fetches stats and history, as on first page load.
func (that *Table) Load(ctx context.Context) error {
	return errors.Join(that.StartGame(ctx), that.FetchStats(ctx), that.FetchHistory(ctx))
}

func (that *Table) StartGame(ctx context.Context) error {
	gameID, err := that.api.StartGame(ctx)
	if err != nil {
		that.fail(msgStartFailed, err)
		return err
	}

	that.update(func(view *View) {
		view.GameID = gameID
		view.Error = ""
	})

	return nil
}

// Roll - rolls on the server, waits the display delay, then shows the result and refreshes stats and history.
// A second Roll while one is outstanding returns ErrRollInProgress.
func (that *Table) Roll(ctx context.Context) error {
	that.mu.Lock()
	if that.view.Rolling {
		that.mu.Unlock()
		return ErrRollInProgress
	}
	that.view.Rolling = true
	that.view.Winner = ""
	that.view.Error = ""
	gameID := that.view.GameID
	that.mu.Unlock()

	result, err := that.api.Roll(ctx, gameID)
	if err != nil {
		that.fail(msgRollFailed, err)
		return err
	}

	if err = that.wait(ctx); err != nil {
		that.update(func(view *View) { view.Rolling = false })
		return err
	}

	that.update(func(view *View) {
		view.PlayerDice = result.PlayerDice
		view.ComputerDice = result.ComputerDice
		view.Winner = result.Winner
		view.Rolling = false
	})

	return errors.Join(that.FetchStats(ctx), that.FetchHistory(ctx))
}

// Reset - starts a new session on the server and clears the local display.
func (that *Table) Reset(ctx context.Context) error {
	that.update(func(view *View) {
		view.Rolling = false
		view.Winner = ""
		view.Error = ""
	})

	resp, err := that.api.ResetGame(ctx)
	if err != nil {
		that.fail(msgResetFailed, err)
		return err
	}

	that.update(func(view *View) {
		view.GameID = resp.GameID
		view.PlayerDice = dice.Pair{1, 1}
		view.ComputerDice = dice.Pair{1, 1}
		view.Stats = &entity.Stats{}
	})

	return nil
}

func (that *Table) FetchStats(ctx context.Context) error {
	stats, err := that.api.GetStats(ctx)
	if err != nil {
		that.fail(msgStatsFailed, err)
		return err
	}

	that.update(func(view *View) {
		view.Stats = stats
		view.Error = ""
	})

	return nil
}

func (that *Table) FetchHistory(ctx context.Context) error {
	history, err := that.api.GetHistory(ctx)
	if err != nil {
		that.fail(msgHistoryFailed, err)
		return err
	}

	if history == nil {
		history = []entity.HistoryEntry{}
	}

	that.update(func(view *View) {
		view.History = history
		view.Error = ""
	})

	return nil
}

func (that *Table) wait(ctx context.Context) error {
	if that.rollDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(that.rollDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail - shows message and clears the rolling flag, everything else stays as it was.
func (that *Table) fail(message string, err error) {
	that.logger.Error(message, "error", err)

	that.update(func(view *View) {
		view.Error = message
		view.Rolling = false
	})
}

func (that *Table) update(apply func(view *View)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	apply(&that.view)
}
