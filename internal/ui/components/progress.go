package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/theme"
)

// ProgressBar draws Percent, a fraction in [0, 1], as a horizontal bar of
// Width columns including its label and percentage.
type ProgressBar struct {
	Label       string
	LabelWidth  int
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

const minBarCells = 4

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		st := lipgloss.NewStyle().Foreground(theme.Text)
		if p.LabelWidth > 0 {
			st = st.Width(p.LabelWidth).MaxWidth(p.LabelWidth)
		}
		b.WriteString(st.Render(p.Label))
		b.WriteString("  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %3.0f%%", math.Round(p.Percent*100))
	}

	cells := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix), minBarCells)
	filled := min(max(int(float64(cells)*p.Percent), 0), cells)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	b.WriteString(lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)))
	if suffix != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix))
	}
	return b.String()
}
