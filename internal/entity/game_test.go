package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameState(t *testing.T) {
	// When: creating the default state
	state := NewGameState()

	// Then: every list should be empty but not nil
	require.NotNil(t, state.CurrentGameMoves)
	require.NotNil(t, state.History.CurrentRoundGames)
	require.NotNil(t, state.History.AllGames)
	assert.Empty(t, state.CurrentGameMoves)
	assert.Empty(t, state.History.CurrentRoundGames)
	assert.Empty(t, state.History.AllGames)
}

func TestGameState_Clone(t *testing.T) {
	t.Run("Clone does not share memory with the original", func(t *testing.T) {
		// Given: a state with moves and an archived game
		players := DefaultPlayers()
		winner := players[0]
		state := GameState{
			CurrentGameMoves: []Move{{Player: players[0], SquareID: 5}},
			History: History{
				CurrentRoundGames: []CompletedGame{{
					Moves:  []Move{{Player: players[0], SquareID: 1}},
					Status: GameStatus{IsComplete: true, Winner: &winner},
				}},
				AllGames: []CompletedGame{},
			},
		}

		// When: the clone is modified
		clone := state.Clone()
		clone.CurrentGameMoves[0].SquareID = 9
		clone.History.CurrentRoundGames[0].Moves[0].SquareID = 9
		clone.History.CurrentRoundGames[0].Status.Winner.Name = "changed"

		// Then: the original stays untouched
		assert.Equal(t, 5, state.CurrentGameMoves[0].SquareID)
		assert.Equal(t, 1, state.History.CurrentRoundGames[0].Moves[0].SquareID)
		assert.Equal(t, "Player 1", state.History.CurrentRoundGames[0].Status.Winner.Name)
	})

	t.Run("Clone normalizes nil lists", func(t *testing.T) {
		// Given: a zero state
		var state GameState

		// When: cloning it
		clone := state.Clone()

		// Then: it equals the default state
		assert.Equal(t, NewGameState(), clone)
	})
}

func TestHasMoveAt(t *testing.T) {
	players := DefaultPlayers()
	moves := []Move{{Player: players[0], SquareID: 1}, {Player: players[1], SquareID: 5}}

	assert.True(t, HasMoveAt(moves, 5))
	assert.False(t, HasMoveAt(moves, 9))
	assert.False(t, HasMoveAt(nil, 1))
}

func TestIsValidSquare(t *testing.T) {
	for squareID := MinSquareID; squareID <= MaxSquareID; squareID++ {
		assert.True(t, IsValidSquare(squareID), "square %d", squareID)
	}

	assert.False(t, IsValidSquare(0))
	assert.False(t, IsValidSquare(10))
	assert.False(t, IsValidSquare(-1))
}

func TestGameStatus_IsTie(t *testing.T) {
	winner := DefaultPlayers()[1]

	assert.True(t, GameStatus{IsComplete: true}.IsTie())
	assert.False(t, GameStatus{IsComplete: true, Winner: &winner}.IsTie())
	assert.False(t, GameStatus{}.IsTie())
}

func TestNewPlayers(t *testing.T) {
	// Given: players with arbitrary ids
	players := NewPlayers(Player{ID: 7, Name: "Ann"}, Player{ID: 7, Name: "Bob"})

	// Then: ids are always 1 and 2
	assert.Equal(t, PlayerOneID, players[0].ID)
	assert.Equal(t, PlayerTwoID, players[1].ID)

	player, ok := players.ByID(PlayerTwoID)
	require.True(t, ok)
	assert.Equal(t, "Bob", player.Name)

	_, ok = players.ByID(3)
	assert.False(t, ok)
}
