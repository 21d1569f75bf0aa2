package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/manolydidier/bibliotheque-console/internal/console"
)

// Grab mode is the keyboard rendition of dragging a row: space picks up
// the article under the cursor, left/right aim at a drop target, enter
// drops. A drop produces the same confirmation payload the buttons do and
// goes through the mutation engine's one public contract.
type grabState struct {
	id     int64
	label  string
	target int
}

const (
	grabTargetTrash = iota
	grabTargetDelete
)

func (g *grabState) moveLeft() {
	if g.target > grabTargetTrash {
		g.target--
	}
}

func (g *grabState) moveRight() {
	if g.target < grabTargetDelete {
		g.target++
	}
}

// drop routes the carried article into the mutation engine contract for
// the aimed target. The permanent target is irreversible, so it always
// goes through the standard confirmation, drop or no drop.
func (g *grabState) drop() console.Confirm {
	action := console.ActionTrash
	if g.target == grabTargetDelete {
		action = console.ActionDelete
	}
	return console.Confirm{
		Action: action,
		IDs:    []int64{g.id},
		Label:  g.label,
	}
}

// render draws the carried row and the two drop targets.
func (g *grabState) render() string {
	trash := dropTargetStyle.Render("🗑  Trash")
	purge := dropTargetStyle.Render("✖  Delete forever")
	if g.target == grabTargetTrash {
		trash = dropTargetActiveStyle.Render("🗑  Trash")
	} else {
		purge = dropTargetActiveStyle.Render("✖  Delete forever")
	}

	carried := fmt.Sprintf("Dragging: %s", g.label)
	targets := lipgloss.JoinHorizontal(lipgloss.Top, trash, "   ", purge)
	return carried + "\n" + targets + "\n" +
		helpStyle.Render("←/→: aim • enter: drop • esc: put back")
}
