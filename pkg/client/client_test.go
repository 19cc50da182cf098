package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/dice/dicetest"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/internal/metrics"
	"github.com/rocketscienceinc/dice-backend/internal/repository"
	"github.com/rocketscienceinc/dice-backend/internal/usecase"
	"github.com/rocketscienceinc/dice-backend/transport/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newServer(t *testing.T, source dice.Source) *httptest.Server {
	t.Helper()

	manager := usecase.NewGameManager(discardLogger, repository.NewMemoryStateRepository(), source, metrics.New(prometheus.NewRegistry()), 10)
	srv := httptest.NewServer(rest.NewHandlers(discardLogger, manager).Routes(nil))
	t.Cleanup(srv.Close)

	return srv
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := New(baseURL, time.Second)
	require.NoError(t, err)

	return c
}

func TestNew(t *testing.T) {
	t.Run("Rejects urls without host", func(t *testing.T) {
		_, err := New("/api", time.Second)
		require.Error(t, err)
	})

	t.Run("Zero timeout uses default", func(t *testing.T) {
		c, err := New("http://localhost:3001/", 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, c.http.Timeout)
	})
}

func TestClient_Operations(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, dicetest.NewSource(t, 6, 6, 1, 1))
	c := newClient(t, srv.URL+"/")

	// Given: a started game
	gameID, err := c.StartGame(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, gameID)

	// When: the dice are rolled
	result, err := c.Roll(ctx, gameID)

	// Then: the scripted outcome comes back
	require.NoError(t, err)
	assert.Equal(t, &entity.RollResult{
		PlayerDice:    dice.Pair{6, 6},
		ComputerDice:  dice.Pair{1, 1},
		Winner:        entity.WinnerPlayer,
		PlayerTotal:   12,
		ComputerTotal: 2,
	}, result)

	stats, err := c.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PlayerWins)
	assert.InDelta(t, 100.0, stats.PlayerWinRate, 0)

	history, err := c.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, gameID, history[0].ID)

	reset, err := c.ResetGame(ctx)
	require.NoError(t, err)
	assert.True(t, reset.Success)
	assert.NotEqual(t, gameID, reset.GameID)
	assert.Equal(t, entity.Session{}, reset.Stats)
}

func TestClient_NotFound(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newServer(t, dice.NewSource(1)).URL)

	_, err := c.Roll(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "No active game found")

	_, err = c.ResetGame(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(t, srv.URL).GetStats(context.Background())

	require.ErrorIs(t, err, ErrUnexpectedHTTP)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := New(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = c.StartGame(context.Background())

	require.Error(t, err)
}
