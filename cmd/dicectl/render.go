package main

import (
	"fmt"
	"io"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/pkg/client"
)

const timeLayout = "2006-01-02 15:04:05"

var faces = [...]string{"?", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

func face(value int) string {
	if value < 1 || value > dice.Sides {
		return faces[0]
	}

	return faces[value]
}

func renderPair(pair dice.Pair) string {
	return fmt.Sprintf("%s %s  (%d)", face(pair[0]), face(pair[1]), pair.Total())
}

func renderRoll(w io.Writer, view client.View) {
	fmt.Fprintf(w, "Player:   %s\n", renderPair(view.PlayerDice))
	fmt.Fprintf(w, "Computer: %s\n", renderPair(view.ComputerDice))
	fmt.Fprintln(w, winnerLine(view.Winner))
}

func winnerLine(winner string) string {
	switch winner {
	case entity.WinnerTie:
		return "It's a Tie!"
	case entity.WinnerPlayer:
		return "Player Wins!"
	case entity.WinnerComputer:
		return "Computer Wins!"
	default:
		return ""
	}
}

func renderStats(w io.Writer, stats *entity.Stats) {
	if stats == nil {
		return
	}

	fmt.Fprintf(w, "Total Games: %d\n", stats.TotalGames)
	fmt.Fprintf(w, "Player Win Rate: %.1f%%\n", stats.PlayerWinRate)
	fmt.Fprintf(w, "Player Wins: %d\n", stats.PlayerWins)
	fmt.Fprintf(w, "Computer Wins: %d\n", stats.ComputerWins)
	fmt.Fprintf(w, "Ties: %d\n", stats.Ties)
}

func renderHistory(w io.Writer, history []entity.HistoryEntry) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No games yet")
		return
	}

	for _, entry := range history {
		outcome := fmt.Sprintf("%s won", entry.Winner)
		if entry.Winner == entity.WinnerTie {
			outcome = "Tie Game"
		}

		fmt.Fprintf(w, "%s: %s (%d vs %d)\n",
			entry.Timestamp.Local().Format(timeLayout), outcome, entry.PlayerScore, entry.ComputerScore)
	}
}
