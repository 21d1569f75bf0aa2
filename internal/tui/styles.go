package tui

import "github.com/charmbracelet/lipgloss"

// The console must stay readable on light and dark terminals, so chrome
// colors are adaptive pairs.
func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(ac("240", "241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	undoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	permalinkStyle = lipgloss.NewStyle().
			Foreground(ac("245", "239"))

	articleTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("86")).
				MarginBottom(1)

	dropTargetStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ac("240", "250")).
			Background(ac("254", "236"))

	dropTargetActiveStyle = dropTargetStyle.
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("160")).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ac("240", "250")).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ac("235", "252")).
			Background(ac("254", "237"))

	buttonActiveStyle = buttonStyle.
				Foreground(ac("255", "235")).
				Background(ac("235", "252")).
				Bold(true)
)
