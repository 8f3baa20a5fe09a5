package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
)

// Validate - checks the invariants a decoded state must hold before anything derives from it.
func (that GameState) Validate() error {
	if err := validateMoves(that.CurrentGameMoves); err != nil {
		return fmt.Errorf("current game: %w", err)
	}

	for i, game := range that.History.CurrentRoundGames {
		if err := game.validate(); err != nil {
			return fmt.Errorf("current round game %d: %w", i, err)
		}
	}

	for i, game := range that.History.AllGames {
		if err := game.validate(); err != nil {
			return fmt.Errorf("archived game %d: %w", i, err)
		}
	}

	return nil
}

func (that CompletedGame) validate() error {
	if err := validateMoves(that.Moves); err != nil {
		return err
	}

	if !that.Status.IsComplete {
		return fmt.Errorf("%w: archived game is not complete", apperror.ErrInvalidState)
	}

	if winner := that.Status.Winner; winner != nil && winner.ID != PlayerOneID && winner.ID != PlayerTwoID {
		return fmt.Errorf("%w: unknown winner id %d", apperror.ErrInvalidState, winner.ID)
	}

	return nil
}

// validateMoves - squares in range and unique, at most a full board, players alternating from player one.
func validateMoves(moves []Move) error {
	if len(moves) > BoardSize {
		return fmt.Errorf("%w: %d moves on a %d square board", apperror.ErrInvalidState, len(moves), BoardSize)
	}

	var occupied [BoardSize + 1]bool
	for i, move := range moves {
		if !IsValidSquare(move.SquareID) {
			return fmt.Errorf("%w: move %d on square %d", apperror.ErrInvalidState, i, move.SquareID)
		}

		if occupied[move.SquareID] {
			return fmt.Errorf("%w: square %d played twice", apperror.ErrInvalidState, move.SquareID)
		}
		occupied[move.SquareID] = true

		expected := PlayerOneID
		if i%2 == 1 {
			expected = PlayerTwoID
		}

		if move.Player.ID != expected {
			return fmt.Errorf("%w: move %d by player %d, expected %d", apperror.ErrInvalidState, i, move.Player.ID, expected)
		}
	}

	return nil
}
