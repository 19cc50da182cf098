package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// rollWith - completes the stored game with fixed dice and records the winner.
func rollWith(player, computer dice.Pair, at time.Time) RollFunc {
	return func(game *entity.Game, session *entity.Session) (entity.HistoryEntry, error) {
		session.Record(game.Complete(player, computer))

		return entity.NewHistoryEntry(game, player, computer, at), nil
	}
}

// runStateRepositoryTests - checks behavior every StateRepository must share.
func runStateRepositoryTests(t *testing.T, newRepo func(t *testing.T) (context.Context, StateRepository)) {
	t.Helper()

	t.Run("GetCurrentGame_NotFound", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// When: no game was ever saved
		game, err := repo.GetCurrentGame(ctx)

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Empty(t, game.ID)
	})

	t.Run("SaveCurrentGame_Replaces", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: two games saved one after another
		require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("first", baseTime)))
		require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("second", baseTime)))

		// When: the current game is read
		game, err := repo.GetCurrentGame(ctx)

		// Then: the latest one is current
		require.NoError(t, err)
		assert.Equal(t, "second", game.ID)
		assert.Equal(t, entity.StatusStarted, game.Status)
	})

	t.Run("GetSession_Empty", func(t *testing.T) {
		ctx, repo := newRepo(t)

		session, err := repo.GetSession(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.NewSession(), session)
	})

	t.Run("RecordRoll", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a started game
		require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("g1", baseTime)))

		player, computer := dice.Pair{6, 6}, dice.Pair{1, 1}
		at := baseTime.Add(time.Second)

		// When: a roll is recorded
		require.NoError(t, repo.RecordRoll(ctx, rollWith(player, computer, at)))

		// Then: game, session and history are all updated
		storedGame, err := repo.GetCurrentGame(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, storedGame.Status)
		assert.Equal(t, entity.WinnerPlayer, storedGame.Winner)

		storedSession, err := repo.GetSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, &entity.Session{TotalGames: 1, PlayerWins: 1}, storedSession)

		history, err := repo.GetHistory(ctx, 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "g1", history[0].ID)
		assert.Equal(t, player, history[0].PlayerDice)
		assert.Equal(t, computer, history[0].ComputerDice)
		assert.True(t, at.Equal(history[0].Timestamp))
	})

	t.Run("RecordRoll_NoGame", func(t *testing.T) {
		ctx, repo := newRepo(t)
		called := false

		// When: a roll is recorded before any game exists
		err := repo.RecordRoll(ctx, func(*entity.Game, *entity.Session) (entity.HistoryEntry, error) {
			called = true
			return entity.HistoryEntry{}, nil
		})

		// Then: ErrGameNotFound is returned and nothing is rolled
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.False(t, called)
	})

	t.Run("RecordRoll_FailureStoresNothing", func(t *testing.T) {
		ctx, repo := newRepo(t)
		require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("g1", baseTime)))
		errRoll := errors.New("roll failed")

		// When: the roll function mutates its arguments and then fails
		err := repo.RecordRoll(ctx, func(game *entity.Game, session *entity.Session) (entity.HistoryEntry, error) {
			session.Record(game.Complete(dice.Pair{6, 6}, dice.Pair{1, 1}))
			return entity.HistoryEntry{}, errRoll
		})

		// Then: the error is passed through and the stored state is unchanged
		require.ErrorIs(t, err, errRoll)

		game, err := repo.GetCurrentGame(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusStarted, game.Status)

		session, err := repo.GetSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.NewSession(), session)

		history, err := repo.GetHistory(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("RecordRoll_ConcurrentCallersLoseNothing", func(t *testing.T) {
		ctx, repo := newRepo(t)
		require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("g1", baseTime)))

		const rolls = 50

		// When: many rolls are recorded at once
		var wg sync.WaitGroup
		errs := make(chan error, rolls)
		for i := 0; i < rolls; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.RecordRoll(ctx, rollWith(dice.Pair{2, 2}, dice.Pair{1, 1}, baseTime))
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		// Then: every roll is counted once and has a history entry
		session, err := repo.GetSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, rolls, session.TotalGames)
		assert.Equal(t, rolls, session.PlayerWins)
		assert.True(t, session.IsConsistent())

		history, err := repo.GetHistory(ctx, rolls*2)
		require.NoError(t, err)
		assert.Len(t, history, rolls)
	})

	t.Run("GetHistory_NewestFirstAndLimited", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: eleven recorded rolls with growing totals
		for i := 0; i < 11; i++ {
			require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("g", baseTime)))
			player := dice.Pair{1, 1 + i%6}
			at := baseTime.Add(time.Duration(i) * time.Second)
			require.NoError(t, repo.RecordRoll(ctx, rollWith(player, dice.Pair{1, 1}, at)))
		}

		// When: the last ten are requested
		history, err := repo.GetHistory(ctx, 10)

		// Then: the oldest is omitted and the newest comes first
		require.NoError(t, err)
		require.Len(t, history, 10)
		assert.True(t, baseTime.Add(10*time.Second).Equal(history[0].Timestamp))
		assert.True(t, baseTime.Add(time.Second).Equal(history[9].Timestamp))
		for i := 1; i < len(history); i++ {
			assert.True(t, history[i-1].Timestamp.After(history[i].Timestamp))
		}
	})

	t.Run("GetHistory_ZeroLimit", func(t *testing.T) {
		ctx, repo := newRepo(t)

		history, err := repo.GetHistory(ctx, 0)

		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("ResetSession", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// Given: a session with a recorded game
		require.NoError(t, repo.SaveCurrentGame(ctx, entity.NewGame("old", baseTime)))
		require.NoError(t, repo.RecordRoll(ctx, rollWith(dice.Pair{3, 3}, dice.Pair{1, 2}, baseTime)))

		// When: the session is reset with a new game
		require.NoError(t, repo.ResetSession(ctx, entity.NewSession(), entity.NewGame("new", baseTime)))

		// Then: counters are zero, the new game is current, history is kept
		storedSession, err := repo.GetSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, entity.NewSession(), storedSession)

		storedGame, err := repo.GetCurrentGame(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", storedGame.ID)

		history, err := repo.GetHistory(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("ResetSession_NoGame", func(t *testing.T) {
		ctx, repo := newRepo(t)

		// When: a reset is requested before any game exists
		err := repo.ResetSession(ctx, entity.NewSession(), entity.NewGame("new", baseTime))

		// Then: nothing is created
		require.ErrorIs(t, err, ErrGameNotFound)

		_, err = repo.GetCurrentGame(ctx)
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}
