package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

type memoryState struct {
	mu sync.RWMutex

	game    *entity.Game
	session entity.Session
	history []entity.HistoryEntry
}

// NewMemoryStateRepository - process-local state, lost on restart.
func NewMemoryStateRepository() StateRepository {
	return &memoryState{}
}

func (that *memoryState) GetCurrentGame(_ context.Context) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.game == nil {
		return &entity.Game{}, ErrGameNotFound
	}

	game := *that.game

	return &game, nil
}

func (that *memoryState) SaveCurrentGame(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *game
	that.game = &stored

	return nil
}

func (that *memoryState) GetSession(_ context.Context) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session := that.session

	return &session, nil
}

func (that *memoryState) ResetSession(_ context.Context, session *entity.Session, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return ErrGameNotFound
	}

	stored := *game
	that.game = &stored
	that.session = *session

	return nil
}

func (that *memoryState) RecordRoll(_ context.Context, roll RollFunc) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return ErrGameNotFound
	}

	game := *that.game
	session := that.session

	entry, err := roll(&game, &session)
	if err != nil {
		return err
	}

	that.game = &game
	that.session = session
	that.history = append(that.history, entry)

	return nil
}

func (that *memoryState) GetHistory(_ context.Context, limit int) ([]entity.HistoryEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return newestFirst(that.history, limit), nil
}

func newestFirst(history []entity.HistoryEntry, limit int) []entity.HistoryEntry {
	if limit <= 0 {
		return []entity.HistoryEntry{}
	}

	start := max(len(history)-limit, 0)

	result := make([]entity.HistoryEntry, 0, len(history)-start)
	for i := len(history) - 1; i >= start; i-- {
		result = append(result, history[i])
	}

	return result
}
