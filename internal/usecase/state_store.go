package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

type gameStateRepo interface {
	Get(ctx context.Context) (entity.GameState, error)
	Save(ctx context.Context, state entity.GameState) error
	Watch(ctx context.Context, onChange func()) error
}

// transition - derives the next state from the previous one without mutating it.
type transition func(prev entity.GameState) (entity.GameState, error)

// StateStore - the only writer of the persisted game state. Every committed
// command notifies the subscribers, views are always derived from a fresh read.
//
// Callbacks never run concurrently. A notification raised while another goroutine
// is delivering, or from inside a callback, is delivered by that goroutine right
// after the current pass, so the call that raised it may return first.
type StateStore struct {
	logger  *slog.Logger
	players entity.Players
	repo    gameStateRepo

	// serializes read-modify-write cycles
	commandMu sync.Mutex

	subscribersMu sync.RWMutex
	subscribers   map[uuid.UUID]func()
	order         []uuid.UUID

	// one goroutine delivers at a time, notifications raised meanwhile are queued to it
	notifyMu   sync.Mutex
	pending    int
	delivering bool
}

func NewStateStore(logger *slog.Logger, players entity.Players, repo gameStateRepo) *StateStore {
	return &StateStore{
		logger:  logger.With("component", "state_store"),
		players: players,
		repo:    repo,

		subscribers: make(map[uuid.UUID]func()),
	}
}

func (that *StateStore) Players() entity.Players {
	return that.players
}

// CurrentGame - moves, turn and status of the game in progress.
func (that *StateStore) CurrentGame(ctx context.Context) entity.Game {
	return tictactoe.Derive(that.players, that.getState(ctx))
}

// CurrentStats - scoreboard of the current round.
func (that *StateStore) CurrentStats(ctx context.Context) entity.Stats {
	return tictactoe.Stats(that.players, that.getState(ctx).History)
}

// RecordMove - appends a move of the current player on squareID.
func (that *StateStore) RecordMove(ctx context.Context, squareID int) error {
	return that.saveState(ctx, func(prev entity.GameState) (entity.GameState, error) {
		if err := tictactoe.ValidateMove(that.players, prev.CurrentGameMoves, squareID); err != nil {
			return entity.GameState{}, err
		}

		next := prev.Clone()
		next.CurrentGameMoves = append(next.CurrentGameMoves, entity.Move{
			Player:   tictactoe.CurrentPlayer(that.players, prev.CurrentGameMoves),
			SquareID: squareID,
		})

		return next, nil
	})
}

// Reset - archives the current game into the round when it is complete and starts
// a new one. An incomplete game is dropped.
func (that *StateStore) Reset(ctx context.Context) error {
	return that.saveState(ctx, func(prev entity.GameState) (entity.GameState, error) {
		return that.resetGame(prev), nil
	})
}

// NewRound - resets the game and moves every game of the round into the overall history.
func (that *StateStore) NewRound(ctx context.Context) error {
	return that.saveState(ctx, func(prev entity.GameState) (entity.GameState, error) {
		next := that.resetGame(prev)

		next.History.AllGames = append(next.History.AllGames, next.History.CurrentRoundGames...)
		next.History.CurrentRoundGames = []entity.CompletedGame{}

		return next, nil
	})
}

// OnChange - registers callback, the returned function removes it and is safe to call twice.
func (that *StateStore) OnChange(callback func()) func() {
	id := uuid.New()

	that.subscribersMu.Lock()
	that.subscribers[id] = callback
	that.order = append(that.order, id)
	that.subscribersMu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			that.subscribersMu.Lock()
			defer that.subscribersMu.Unlock()

			delete(that.subscribers, id)
			for i, subscriberID := range that.order {
				if subscriberID == id {
					that.order = append(that.order[:i], that.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Watch - notifies the subscribers whenever another process changes the persisted state.
func (that *StateStore) Watch(ctx context.Context) error {
	log := that.logger.With("method", "Watch")

	err := that.repo.Watch(ctx, func() {
		log.Info("state changed by another process")
		that.notify()
	})
	if err != nil {
		return fmt.Errorf("failed to watch state: %w", err)
	}

	return nil
}

// Refresh - notifies the subscribers without changing anything, used for the first render.
func (that *StateStore) Refresh() {
	that.notify()
}

func (that *StateStore) resetGame(prev entity.GameState) entity.GameState {
	next := prev.Clone()

	status := tictactoe.Status(that.players, prev.CurrentGameMoves)
	if status.IsComplete {
		next.History.CurrentRoundGames = append(next.History.CurrentRoundGames, entity.CompletedGame{
			Moves:  next.CurrentGameMoves,
			Status: status,
		})
	}

	next.CurrentGameMoves = []entity.Move{}

	return next
}

// saveState - runs one read-modify-write cycle and notifies after the write is committed.
func (that *StateStore) saveState(ctx context.Context, fn transition) error {
	if fn == nil {
		panic("usecase: saveState called without a transition")
	}

	if err := that.commit(ctx, fn); err != nil {
		return err
	}

	that.notify()

	return nil
}

func (that *StateStore) commit(ctx context.Context, fn transition) error {
	that.commandMu.Lock()
	defer that.commandMu.Unlock()

	next, err := fn(that.getState(ctx))
	if err != nil {
		return err
	}

	if err = that.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}

// getState - never fails, unreadable state is replaced by the default one.
func (that *StateStore) getState(ctx context.Context) entity.GameState {
	log := that.logger.With("method", "getState")

	state, err := that.repo.Get(ctx)
	if errors.Is(err, repository.ErrGameStateNotFound) {
		return entity.NewGameState()
	}

	if err != nil {
		log.Warn("could not load state, using defaults", "error", err)
		return entity.NewGameState()
	}

	return state
}

func (that *StateStore) notify() {
	that.notifyMu.Lock()
	that.pending++
	if that.delivering {
		that.notifyMu.Unlock()
		return
	}
	that.delivering = true
	that.notifyMu.Unlock()

	finished := false
	defer func() {
		// a panicking callback must not leave the queue owned by nobody
		if !finished {
			that.notifyMu.Lock()
			that.delivering = false
			that.notifyMu.Unlock()
		}
	}()

	for that.takePending() {
		that.deliver()
	}

	finished = true
}

// takePending - claims one queued notification, releases delivery when none is left.
func (that *StateStore) takePending() bool {
	that.notifyMu.Lock()
	defer that.notifyMu.Unlock()

	if that.pending == 0 {
		that.delivering = false
		return false
	}

	that.pending--

	return true
}

func (that *StateStore) deliver() {
	that.subscribersMu.RLock()
	callbacks := make([]func(), 0, len(that.order))
	for _, id := range that.order {
		callbacks = append(callbacks, that.subscribers[id])
	}
	that.subscribersMu.RUnlock()

	for _, callback := range callbacks {
		callback()
	}
}
