// Package theme holds the colors and shared lipgloss styles of the TUI.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#7C83FD")
	Secondary = lipgloss.Color("#2EC4B6")
	Accent    = lipgloss.Color("#FFB347")
	Error     = lipgloss.Color("#EF476F")
	Text      = lipgloss.Color("#EDF2F4")
	TextDim   = lipgloss.Color("#8D99AE")
	BgDark    = lipgloss.Color("#111827")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#3B4252")

	good = lipgloss.Color("#06D6A0")
)

// tierColors is keyed by schedule tier name; unknown tiers render as "low".
var tierColors = map[string]color.Color{
	"critical": lipgloss.Color("#EF476F"),
	"high":     lipgloss.Color("#F78C6B"),
	"medium":   lipgloss.Color("#FFD166"),
	"low":      good,
}

func TierColor(tier string) color.Color {
	if c, ok := tierColors[tier]; ok {
		return c
	}
	return tierColors["low"]
}

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Notice   = lipgloss.NewStyle().Foreground(Accent)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = Body
	Correct    = lipgloss.NewStyle().Foreground(good).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)

	ProgressEmpty = lipgloss.NewStyle().Background(Border)
	Card          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(1, 2)
)
