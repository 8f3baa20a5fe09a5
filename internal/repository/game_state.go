package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
)

var ErrGameStateNotFound = errors.New("game state not found")

type GameStateRepository interface {
	Get(ctx context.Context) (entity.GameState, error)
	Save(ctx context.Context, state entity.GameState) error

	// Watch reports every change of the stored value except the echo of this repository's own writes.
	Watch(ctx context.Context, onChange func()) error
}

type dbGameState struct {
	provider storage.Provider
	key      string

	// last value this repository wrote or reported, an event for the same value is an echo
	mu       sync.Mutex
	seen     bool
	lastSeen []byte
}

func NewGameStateRepository(provider storage.Provider, key string) GameStateRepository {
	return &dbGameState{
		provider: provider,
		key:      key,
	}
}

func (that *dbGameState) Get(ctx context.Context) (entity.GameState, error) {
	response, err := that.provider.Get(ctx, that.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return entity.GameState{}, ErrGameStateNotFound
	}

	if err != nil {
		return entity.GameState{}, fmt.Errorf("failed to get game state: %w", err)
	}

	state, err := decode(response)
	if err != nil {
		return entity.GameState{}, err
	}

	return state, nil
}

func (that *dbGameState) Save(ctx context.Context, state entity.GameState) error {
	stateJSON, err := json.Marshal(state.Clone())
	if err != nil {
		return fmt.Errorf("could not marshal game state: %w", err)
	}

	// remembered before the write, in-process providers notify from inside Set
	that.mu.Lock()
	previousSeen, previous := that.seen, that.lastSeen
	that.seen, that.lastSeen = true, stateJSON
	that.mu.Unlock()

	if err = that.provider.Set(ctx, that.key, stateJSON); err != nil {
		that.mu.Lock()
		that.seen, that.lastSeen = previousSeen, previous
		that.mu.Unlock()

		return fmt.Errorf("failed to set game state: %w", err)
	}

	return nil
}

func (that *dbGameState) Watch(ctx context.Context, onChange func()) error {
	err := that.provider.Watch(ctx, that.key, func() {
		if !that.observe(ctx) {
			return
		}

		onChange()
	})
	if err != nil {
		return fmt.Errorf("failed to watch game state: %w", err)
	}

	return nil
}

// observe - reports whether the stored value differs from the last one written or reported
// here, and remembers it. Unreadable values are always reported.
func (that *dbGameState) observe(ctx context.Context) bool {
	current, err := that.provider.Get(ctx, that.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		current = nil
	} else if err != nil {
		return true
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.seen && bytes.Equal(current, that.lastSeen) {
		return false
	}

	that.seen, that.lastSeen = true, current

	return true
}

func decode(response []byte) (entity.GameState, error) {
	var state entity.GameState
	if err := json.Unmarshal(response, &state); err != nil {
		return entity.GameState{}, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	if err := state.Validate(); err != nil {
		return entity.GameState{}, fmt.Errorf("failed to validate game state: %w", err)
	}

	// normalizes missing lists so a decoded default equals entity.NewGameState
	return state.Clone(), nil
}
