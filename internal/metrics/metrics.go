package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - game counters exported on /metrics.
type Metrics struct {
	gamesStarted  prometheus.Counter
	sessionResets prometheus.Counter
	rolls         *prometheus.CounterVec
}

// New - registers the game counters in the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dice_games_started_total",
			Help: "Total number of games started.",
		}),
		sessionResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dice_session_resets_total",
			Help: "Total number of session resets.",
		}),
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dice_rolls_total",
			Help: "Total number of completed rolls by winner.",
		}, []string{"winner"}),
	}

	reg.MustRegister(m.gamesStarted, m.sessionResets, m.rolls)

	return m
}

func (that *Metrics) GameStarted() {
	that.gamesStarted.Inc()
}

func (that *Metrics) SessionReset() {
	that.sessionResets.Inc()
}

func (that *Metrics) RollCompleted(winner string) {
	that.rolls.WithLabelValues(winner).Inc()
}
