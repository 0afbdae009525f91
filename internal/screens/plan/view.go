package plan

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/studyaid"
	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := min(width-4, 96)
	var b strings.Builder

	b.WriteString(s.renderSettings())
	b.WriteString("\n\n")

	switch {
	case !s.loaded:
		b.WriteString(theme.Hint.Render("Loading plan..."))
	case s.plan == nil:
		b.WriteString(theme.Hint.Render("No plan yet. Press G to generate one from your answers."))
	case len(s.plan.Items) == 0:
		b.WriteString(theme.Hint.Render("The latest plan is empty. Answer some questions, then press G."))
	default:
		b.WriteString(renderCalendar(*s.plan, cw))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(
			"%.1f of %.1f hours allocated · %d week(s) · created %s",
			s.plan.TotalHours(), s.plan.WeeklyHoursBudget, s.plan.Weeks,
			s.plan.CreatedAt.Local().Format("2006-01-02 15:04"))))
	}

	if s.fetchingTips {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Fetching study tips..."))
	} else if s.tips != nil {
		b.WriteString("\n\n")
		b.WriteString(renderTips(*s.tips, cw))
	}

	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render(s.status))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2).Render(b.String())
}

func (s *Screen) renderSettings() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	hours := value.Render(fmt.Sprintf("%.1f h/week", s.hours))
	if s.editing {
		hours = s.input.View()
	}
	return fmt.Sprintf("%s %s    %s %s    %s %s",
		label.Render("Strategy:"), value.Render(string(s.strategy)),
		label.Render("Budget:"), hours,
		label.Render("Weeks:"), value.Render(fmt.Sprint(s.weeks)),
	)
}

// renderCalendar lays the weekly template out with one row per subject and
// one column per study day.
func renderCalendar(p schedule.Plan, width int) string {
	days := p.Days()
	headers := []string{"Subject", "Tier", "Acc"}
	for _, d := range days {
		headers = append(headers, d.String()[:3])
	}
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(p.Items))
	for _, it := range p.Items {
		perDay := make(map[time.Weekday]float64)
		for _, sess := range it.DailySessions {
			perDay[sess.Day] += sess.DurationHours
		}
		row := []string{it.Subject, string(it.Tier), fmt.Sprintf("%.0f%%", it.AccuracyPercent)}
		for _, d := range days {
			cell := ""
			if h := perDay[d]; h > 0 {
				cell = fmt.Sprintf("%.1f", h)
			}
			row = append(row, cell)
		}
		row = append(row, fmt.Sprintf("%.1f", it.WeeklyHours))
		rows = append(rows, row)
	}

	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 1:
				return cell.Foreground(theme.TierColor(rows[row][1]))
			case col > 2:
				return cell.Align(lipgloss.Right)
			}
			return cell
		})
	if w := lipgloss.Width(t.String()); w > width {
		t = t.Width(width)
	}
	return t.String()
}

func renderTips(tips studyaid.Tips, width int) string {
	if len(tips.Tips) == 0 {
		return theme.Hint.Render("No tips yet. Answer some questions first.")
	}
	body := theme.Body.Width(width - 8)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Study tips"))
	for _, tip := range tips.Tips {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TierColor(string(tip.Tier))).Bold(true).
			Render(fmt.Sprintf("%s (%.0f%%, %s)", tip.Subject, tip.AccuracyPercent, tip.Tier)))
		b.WriteString("\n")
		b.WriteString(body.Render(tip.Advice))
		for _, a := range tip.Actions {
			b.WriteString("\n")
			b.WriteString(body.Render("  • " + a))
		}
	}
	if tips.Fallback {
		b.WriteString("\n\n")
		b.WriteString(theme.Notice.Render("AI assistant unavailable; showing built-in advice."))
	}
	return components.Card(b.String(), width)
}
