// Package layout draws the chrome around every screen: a header bar with
// the profile's running accuracy and a footer listing key bindings.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/theme"
)

// Terminals smaller than this get a resize notice instead of the UI.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one entry of the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Header is what the top bar shows.
type Header struct {
	Title    string
	User     string
	Accuracy float64
	Answered int
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Terminal too small!\n\nResize to at least %dx%d (now %dx%d).",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// spread lays out left, middle and right segments across inner columns,
// keeping the middle one centered whenever there is room for it.
func spread(inner int, left, middle, right string) string {
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(middle), lipgloss.Width(right)
	before := max((inner-mw)/2-lw, 1)
	after := max(inner-lw-before-mw-rw, 1)
	return left + strings.Repeat(" ", before) + middle + strings.Repeat(" ", after) + right
}

// RenderHeader draws the top bar: product name, screen title and the
// active profile with its overall accuracy.
func RenderHeader(h Header, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("examprep")
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(h.Title)

	stats := "no answers yet"
	if h.Answered > 0 {
		stats = fmt.Sprintf("%.0f%% of %d", h.Accuracy, h.Answered)
	}
	profile := lipgloss.NewStyle().Foreground(theme.Secondary).Render(h.User) + "  " +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(stats)

	return bar(width).Render(spread(width-4, brand, title, profile))
}

// RenderFooter draws the key hints, followed by status right-aligned when
// it is not empty.
func RenderFooter(hints []KeyHint, status string, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	line := b.String()
	if status != "" {
		st := theme.Notice.Render(status)
		gap := max(width-4-lipgloss.Width(line)-lipgloss.Width(st), 2)
		line += strings.Repeat(" ", gap) + st
	}
	return bar(width).Render(line)
}

// ContentHeight is what is left for a screen between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, content and footer, padding content so the
// footer stays pinned to the bottom row.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
