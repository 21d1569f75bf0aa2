package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manolydidier/bibliotheque-console/internal/console"
)

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// confirmState is an open confirmation prompt for a destructive action.
type confirmState struct {
	pending console.Confirm
	focus   confirmFocus
}

func newConfirm(c console.Confirm) *confirmState {
	// Default focus on cancel so a stray enter never destroys anything.
	return &confirmState{pending: c, focus: confirmFocusCancel}
}

func (c *confirmState) toggleFocus() {
	if c.focus == confirmFocusConfirm {
		c.focus = confirmFocusCancel
	} else {
		c.focus = confirmFocusConfirm
	}
}

func confirmTitle(action console.Action) string {
	switch action {
	case console.ActionTrash:
		return "Move to trash?"
	case console.ActionDelete:
		return "Delete forever?"
	case console.ActionRestore:
		return "Restore?"
	}
	return "Confirm?"
}

func confirmBody(c console.Confirm) string {
	subject := c.Label
	if len(c.IDs) > 1 {
		subject = fmt.Sprintf("%d articles", len(c.IDs))
	}
	switch c.Action {
	case console.ActionDelete:
		return fmt.Sprintf("%s will be permanently deleted. This cannot be undone.", subject)
	case console.ActionTrash:
		return fmt.Sprintf("%s will be moved to the trash.", subject)
	}
	return subject
}

// render draws the modal. Borders only on the outer box; nested
// backgrounds misrender on some terminals.
func (c *confirmState) render(width int) string {
	confirmLabel := "Confirm"
	if c.pending.Action == console.ActionDelete {
		confirmLabel = "Delete forever"
	}

	confirm := buttonStyle.Render(confirmLabel)
	cancel := buttonStyle.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = buttonActiveStyle.Render(confirmLabel)
	} else {
		cancel = buttonActiveStyle.Render("Cancel")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	bodyWidth := width - 10
	if bodyWidth < 24 {
		bodyWidth = 24
	}
	body := lipgloss.NewStyle().Width(bodyWidth).Render(confirmBody(c.pending))

	content := strings.Join([]string{
		articleTitleStyle.Render(confirmTitle(c.pending.Action)),
		body,
		"",
		controls,
		"",
		helpStyle.Render("tab: focus • enter: select • esc: cancel"),
	}, "\n")

	return modalStyle.Render(content)
}
