package entity

const (
	PlayerOneID = 1
	PlayerTwoID = 2
)

type Player struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IconClass  string `json:"iconClass"`
	ColorClass string `json:"colorClass"`
}

// Players - the fixed pair of players, player one always moves first.
type Players [2]Player

func NewPlayers(first, second Player) Players {
	first.ID = PlayerOneID
	second.ID = PlayerTwoID

	return Players{first, second}
}

func DefaultPlayers() Players {
	return NewPlayers(
		Player{Name: "Player 1", IconClass: "fa-x", ColorClass: "turquoise"},
		Player{Name: "Player 2", IconClass: "fa-o", ColorClass: "yellow"},
	)
}

func (that Players) ByID(id int) (Player, bool) {
	for _, player := range that {
		if player.ID == id {
			return player, true
		}
	}

	return Player{}, false
}
