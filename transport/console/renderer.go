package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

var colorClasses = map[string]lipgloss.Color{
	"turquoise": lipgloss.Color("#3cc4bf"),
	"yellow":    lipgloss.Color("#f2b147"),
}

var iconClasses = map[string]string{
	"fa-x": "X",
	"fa-o": "O",
}

// Renderer - turns the derived views into text, one style per player.
type Renderer struct {
	styles map[int]lipgloss.Style
	icons  map[int]string
	muted  lipgloss.Style
}

func NewRenderer(players entity.Players) *Renderer {
	renderer := &Renderer{
		styles: make(map[int]lipgloss.Style, len(players)),
		icons:  make(map[int]string, len(players)),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}

	for _, player := range players {
		color, ok := colorClasses[player.ColorClass]
		if !ok {
			color = lipgloss.Color(player.ColorClass)
		}

		renderer.styles[player.ID] = lipgloss.NewStyle().Bold(true).Foreground(color)
		renderer.icons[player.ID] = iconFor(player)
	}

	return renderer
}

func (that *Renderer) Render(game entity.Game, stats entity.Stats) string {
	var b strings.Builder

	b.WriteString(that.board(game.Moves))
	b.WriteString("\n")
	b.WriteString(that.status(game))
	b.WriteString("\n")
	b.WriteString(that.scoreboard(stats))

	return b.String()
}

func (that *Renderer) board(moves []entity.Move) string {
	cells := make([]string, entity.BoardSize)
	for i := range cells {
		cells[i] = that.muted.Render(strconv.Itoa(i + 1))
	}

	for _, move := range moves {
		if !entity.IsValidSquare(move.SquareID) {
			continue
		}

		cells[move.SquareID-1] = that.playerMark(move.Player)
	}

	var rows []string
	for row := 0; row < 3; row++ {
		rows = append(rows, " "+strings.Join(cells[row*3:row*3+3], " | "))
	}

	return strings.Join(rows, "\n"+that.muted.Render("---+---+---")+"\n")
}

func (that *Renderer) status(game entity.Game) string {
	switch {
	case game.Status.Winner != nil:
		return that.playerName(*game.Status.Winner) + " wins!"
	case game.Status.IsComplete:
		return "Tie!"
	default:
		return that.playerName(game.CurrentPlayer) + ", you're up!"
	}
}

func (that *Renderer) scoreboard(stats entity.Stats) string {
	parts := make([]string, 0, len(stats.Players)+1)
	for _, playerStats := range stats.Players {
		parts = append(parts, fmt.Sprintf("%s %d wins", that.playerName(playerStats.Player), playerStats.Wins))
	}

	parts = append(parts, fmt.Sprintf("Ties %d", stats.Ties))

	return strings.Join(parts, "  ")
}

func (that *Renderer) playerMark(player entity.Player) string {
	return that.styles[player.ID].Render(that.icons[player.ID])
}

func (that *Renderer) playerName(player entity.Player) string {
	return that.styles[player.ID].Render(player.Name)
}

func iconFor(player entity.Player) string {
	if icon, ok := iconClasses[player.IconClass]; ok {
		return icon
	}

	if player.Name != "" {
		return strings.ToUpper(player.Name[:1])
	}

	return strconv.Itoa(player.ID)
}
