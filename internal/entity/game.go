package entity

const (
	BoardSize = 9

	MinSquareID = 1
	MaxSquareID = 9
)

type Move struct {
	Player   Player `json:"player"`
	SquareID int    `json:"squareId"`
}

type GameStatus struct {
	IsComplete bool    `json:"isComplete"`
	Winner     *Player `json:"winner"`
}

// IsTie - a complete game without a winner.
func (that GameStatus) IsTie() bool {
	return that.IsComplete && that.Winner == nil
}

// CompletedGame - an archived game, never mutated after it is appended to the history.
type CompletedGame struct {
	Moves  []Move     `json:"moves"`
	Status GameStatus `json:"status"`
}

type History struct {
	CurrentRoundGames []CompletedGame `json:"currentRoundGames"`
	AllGames          []CompletedGame `json:"allGames"`
}

// GameState - the only persisted aggregate.
type GameState struct {
	CurrentGameMoves []Move  `json:"currentGameMoves"`
	History          History `json:"history"`
}

// Game - the current game projected from a GameState.
type Game struct {
	Moves         []Move     `json:"moves"`
	CurrentPlayer Player     `json:"currentPlayer"`
	NextPlayer    Player     `json:"nextPlayer"`
	Status        GameStatus `json:"status"`
}

type PlayerStats struct {
	Player Player `json:"player"`
	Wins   int    `json:"wins"`
}

// Stats - scoreboard of the current round.
type Stats struct {
	WinsByPlayer map[int]int   `json:"winsByPlayer"`
	Ties         int           `json:"ties"`
	Players      []PlayerStats `json:"players"`
}

func NewGameState() GameState {
	return GameState{
		CurrentGameMoves: []Move{},
		History: History{
			CurrentRoundGames: []CompletedGame{},
			AllGames:          []CompletedGame{},
		},
	}
}

func IsValidSquare(squareID int) bool {
	return squareID >= MinSquareID && squareID <= MaxSquareID
}

// HasMoveAt - reports whether the square already received a move.
func HasMoveAt(moves []Move, squareID int) bool {
	for _, move := range moves {
		if move.SquareID == squareID {
			return true
		}
	}

	return false
}

// Clone - returns a deep copy, nil slices are normalized to empty ones.
func (that GameState) Clone() GameState {
	return GameState{
		CurrentGameMoves: cloneMoves(that.CurrentGameMoves),
		History: History{
			CurrentRoundGames: cloneGames(that.History.CurrentRoundGames),
			AllGames:          cloneGames(that.History.AllGames),
		},
	}
}

func cloneMoves(moves []Move) []Move {
	out := make([]Move, len(moves))
	copy(out, moves)

	return out
}

func cloneGames(games []CompletedGame) []CompletedGame {
	out := make([]CompletedGame, 0, len(games))
	for _, game := range games {
		out = append(out, game.Clone())
	}

	return out
}

func (that CompletedGame) Clone() CompletedGame {
	status := that.Status
	if status.Winner != nil {
		winner := *status.Winner
		status.Winner = &winner
	}

	return CompletedGame{
		Moves:  cloneMoves(that.Moves),
		Status: status,
	}
}
