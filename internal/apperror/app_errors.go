package apperror

import "errors"

var (
	ErrGameFinished   = errors.New("game is already finished")
	ErrSquareOccupied = errors.New("square is already occupied")
	ErrInvalidSquare  = errors.New("invalid square id")
	ErrInvalidState   = errors.New("invalid game state")
)
