package entity

import "math"

// Session - cumulative outcome counters since the last reset.
type Session struct {
	TotalGames   int `json:"totalGames"`
	PlayerWins   int `json:"playerWins"`
	ComputerWins int `json:"computerWins"`
	Ties         int `json:"ties"`
}

func NewSession() *Session {
	return &Session{}
}

// Record - counts one finished game for the given winner.
func (that *Session) Record(winner string) {
	switch winner {
	case WinnerPlayer:
		that.PlayerWins++
	case WinnerComputer:
		that.ComputerWins++
	default:
		that.Ties++
	}

	that.TotalGames++
}

// PlayerWinRate - percentage of games won by the player, rounded to one decimal.
func (that *Session) PlayerWinRate() float64 {
	if that.TotalGames == 0 {
		return 0
	}

	rate := float64(that.PlayerWins) / float64(that.TotalGames) * 100

	return math.Round(rate*10) / 10
}

// IsConsistent - every game is counted exactly once.
func (that *Session) IsConsistent() bool {
	return that.TotalGames == that.PlayerWins+that.ComputerWins+that.Ties
}

// Stats - session counters with the derived win rate.
type Stats struct {
	Session

	PlayerWinRate float64 `json:"playerWinRate"`
}

func (that *Session) Stats() Stats {
	return Stats{
		Session:       *that,
		PlayerWinRate: that.PlayerWinRate(),
	}
}
