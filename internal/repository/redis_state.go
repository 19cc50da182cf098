package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

const (
	currentGameKey = "dice:game:current"
	sessionKey     = "dice:session"
	historyKey     = "dice:history"

	maxTxRetries = 100
)

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbState struct {
	client *redis.Client
}

// NewRedisStateRepository - state shared through redis, so several server processes can serve one game.
// Read-modify-write steps run under WATCH and are retried when another process changes the keys.
func NewRedisStateRepository(client *redis.Client) StateRepository {
	return &dbState{
		client: client,
	}
}

func (that *dbState) GetCurrentGame(ctx context.Context) (*entity.Game, error) {
	return getGame(ctx, that.client)
}

func (that *dbState) SaveCurrentGame(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, currentGameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbState) GetSession(ctx context.Context) (*entity.Session, error) {
	return getSession(ctx, that.client)
}

func (that *dbState) ResetSession(ctx context.Context, session *entity.Session, game *entity.Game) error {
	gameJSON, sessionJSON, err := marshalState(game, session)
	if err != nil {
		return err
	}

	err = that.watch(ctx, func(tx *redis.Tx) error {
		if _, err := getGame(ctx, tx); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, currentGameKey, gameJSON, 0)
			pipe.Set(ctx, sessionKey, sessionJSON, 0)
			return nil
		})

		return err
	}, currentGameKey, sessionKey)
	if err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}

	return nil
}

func (that *dbState) RecordRoll(ctx context.Context, roll RollFunc) error {
	err := that.watch(ctx, func(tx *redis.Tx) error {
		game, err := getGame(ctx, tx)
		if err != nil {
			return err
		}

		session, err := getSession(ctx, tx)
		if err != nil {
			return err
		}

		entry, err := roll(game, session)
		if err != nil {
			return err
		}

		gameJSON, sessionJSON, err := marshalState(game, session)
		if err != nil {
			return err
		}

		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("could not marshal history entry: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, currentGameKey, gameJSON, 0)
			pipe.Set(ctx, sessionKey, sessionJSON, 0)
			pipe.RPush(ctx, historyKey, entryJSON)
			return nil
		})

		return err
	}, currentGameKey, sessionKey)
	if err != nil {
		return fmt.Errorf("failed to record roll: %w", err)
	}

	return nil
}

func (that *dbState) GetHistory(ctx context.Context, limit int) ([]entity.HistoryEntry, error) {
	if limit <= 0 {
		return []entity.HistoryEntry{}, nil
	}

	// oldest to newest
	items, err := that.client.LRange(ctx, historyKey, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	history := make([]entity.HistoryEntry, len(items))
	for i, item := range items {
		var entry entity.HistoryEntry
		if err = json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
		}

		history[len(items)-1-i] = entry
	}

	return history, nil
}

// watch - runs txf under WATCH on keys, retrying while another client modifies them before EXEC.
func (that *dbState) watch(ctx context.Context, txf func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := that.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return ErrTxConflict
}

func getGame(ctx context.Context, client getter) (*entity.Game, error) {
	response, err := client.Get(ctx, currentGameKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}

	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get current game: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

func getSession(ctx context.Context, client getter) (*entity.Session, error) {
	response, err := client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return entity.NewSession(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func marshalState(game *entity.Game, session *entity.Session) ([]byte, []byte, error) {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return nil, nil, fmt.Errorf("could not marshal game: %w", err)
	}

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return nil, nil, fmt.Errorf("could not marshal session: %w", err)
	}

	return gameJSON, sessionJSON, nil
}
