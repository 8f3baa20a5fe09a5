package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

// WinCombos - squares are numbered 1..9 row by row starting at the top-left corner.
var WinCombos = [][3]int{
	{1, 2, 3},
	{4, 5, 6},
	{7, 8, 9},
	{1, 4, 7},
	{2, 5, 8},
	{3, 6, 9},
	{1, 5, 9},
	{3, 5, 7},
}

// CurrentPlayer - player one moves on an even number of recorded moves, player two otherwise.
func CurrentPlayer(players entity.Players, moves []entity.Move) entity.Player {
	return players[len(moves)%2]
}

func NextPlayer(players entity.Players, moves []entity.Move) entity.Player {
	return players[(len(moves)+1)%2]
}

// Winner - returns the player holding a full winning combo, nil if nobody does.
// Players are checked in order and a later match overrides an earlier one.
func Winner(players entity.Players, moves []entity.Move) *entity.Player {
	var winner *entity.Player

	for i := range players {
		if hasWinningCombo(occupiedSquares(moves, players[i].ID)) {
			player := players[i]
			winner = &player
		}
	}

	return winner
}

func IsComplete(players entity.Players, moves []entity.Move) bool {
	return Winner(players, moves) != nil || len(moves) == entity.BoardSize
}

func Status(players entity.Players, moves []entity.Move) entity.GameStatus {
	winner := Winner(players, moves)

	return entity.GameStatus{
		IsComplete: winner != nil || len(moves) == entity.BoardSize,
		Winner:     winner,
	}
}

// Derive - projects the current game out of a state snapshot.
func Derive(players entity.Players, state entity.GameState) entity.Game {
	return entity.Game{
		Moves:         state.CurrentGameMoves,
		CurrentPlayer: CurrentPlayer(players, state.CurrentGameMoves),
		NextPlayer:    NextPlayer(players, state.CurrentGameMoves),
		Status:        Status(players, state.CurrentGameMoves),
	}
}

// Stats - counts wins and ties over the games of the current round.
func Stats(players entity.Players, history entity.History) entity.Stats {
	stats := entity.Stats{
		WinsByPlayer: make(map[int]int, len(players)),
		Players:      make([]entity.PlayerStats, 0, len(players)),
	}

	for _, player := range players {
		stats.WinsByPlayer[player.ID] = 0
	}

	for _, game := range history.CurrentRoundGames {
		if game.Status.Winner == nil {
			stats.Ties++
			continue
		}

		if _, ok := stats.WinsByPlayer[game.Status.Winner.ID]; ok {
			stats.WinsByPlayer[game.Status.Winner.ID]++
		}
	}

	for _, player := range players {
		stats.Players = append(stats.Players, entity.PlayerStats{
			Player: player,
			Wins:   stats.WinsByPlayer[player.ID],
		})
	}

	return stats
}

// ValidateMove - checks that a move on squareID may be appended to moves.
func ValidateMove(players entity.Players, moves []entity.Move, squareID int) error {
	if !entity.IsValidSquare(squareID) {
		return fmt.Errorf("%w: square %d", apperror.ErrInvalidSquare, squareID)
	}

	if IsComplete(players, moves) {
		return apperror.ErrGameFinished
	}

	if entity.HasMoveAt(moves, squareID) {
		return fmt.Errorf("%w: square %d", apperror.ErrSquareOccupied, squareID)
	}

	return nil
}

func occupiedSquares(moves []entity.Move, playerID int) map[int]struct{} {
	squares := make(map[int]struct{}, len(moves))
	for _, move := range moves {
		if move.Player.ID == playerID {
			squares[move.SquareID] = struct{}{}
		}
	}

	return squares
}

func hasWinningCombo(squares map[int]struct{}) bool {
	for _, combo := range WinCombos {
		if containsAll(squares, combo) {
			return true
		}
	}

	return false
}

func containsAll(squares map[int]struct{}, combo [3]int) bool {
	for _, squareID := range combo {
		if _, ok := squares[squareID]; !ok {
			return false
		}
	}

	return true
}
