package entity

import (
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
)

const (
	StatusStarted   = "started"
	StatusCompleted = "completed"

	WinnerPlayer   = "player"
	WinnerComputer = "computer"
	WinnerTie      = "tie"
)

type Game struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	PlayerScore   int       `json:"playerScore"`
	ComputerScore int       `json:"computerScore"`
	Winner        string    `json:"winner,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Status:    StatusStarted,
		Timestamp: now,
	}
}

// Complete - records the outcome of a roll on the game.
func (that *Game) Complete(player, computer dice.Pair) string {
	that.PlayerScore = player.Total()
	that.ComputerScore = computer.Total()
	that.Winner = DetermineWinner(that.PlayerScore, that.ComputerScore)
	that.Status = StatusCompleted

	return that.Winner
}

func (that *Game) IsCompleted() bool {
	return that.Status == StatusCompleted
}

// DetermineWinner - higher total wins, equal totals tie.
func DetermineWinner(playerTotal, computerTotal int) string {
	switch {
	case playerTotal > computerTotal:
		return WinnerPlayer
	case computerTotal > playerTotal:
		return WinnerComputer
	default:
		return WinnerTie
	}
}

// HistoryEntry is an immutable snapshot of a completed game.
type HistoryEntry struct {
	Game

	PlayerDice   dice.Pair `json:"playerDice"`
	ComputerDice dice.Pair `json:"computerDice"`
}

func NewHistoryEntry(game *Game, player, computer dice.Pair, completedAt time.Time) HistoryEntry {
	snapshot := *game
	snapshot.Timestamp = completedAt

	return HistoryEntry{
		Game:         snapshot,
		PlayerDice:   player,
		ComputerDice: computer,
	}
}

// RollResult - outcome of a single roll returned to the client.
type RollResult struct {
	PlayerDice    dice.Pair `json:"playerDice"`
	ComputerDice  dice.Pair `json:"computerDice"`
	Winner        string    `json:"winner"`
	PlayerTotal   int       `json:"playerTotal"`
	ComputerTotal int       `json:"computerTotal"`
}
