package components

import (
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/theme"
)

// Column bounds for centered content inside a Frame.
const (
	maxContentWidth = 72
	minContentWidth = 20
)

// ContentWidth is the width shared by the cards and menus of a screen so
// their edges line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// Frame centers content inside a rounded border filling width x height.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(theme.Primary).
		Render(content)
}

func Card(content string, width int) string {
	return theme.Card.Width(width - 2).Render(content)
}
