package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return centered(width, theme.Incorrect.Render("Error: "+s.errMsg))
	}
	if s.confirmQuit {
		return centered(width, theme.Body.Render("End this practice session?")+"\n\n"+
			theme.Hint.Render("Y to end, N to keep going"))
	}

	switch s.phase {
	case phasePicking:
		if len(s.picker.Items) == 0 {
			return centered(width, theme.Hint.Render("Loading subjects..."))
		}
		cw := components.ContentWidth(width)
		title := theme.Title.Width(cw).Render("Choose a subject")
		return components.Frame(title+"\n\n"+s.picker.View(min(cw, 40)), width, height)
	case phaseLoading:
		return centered(width, theme.Hint.Render("Loading questions..."))
	case phaseDone:
		msg := "No questions to practice. Import a question bank first."
		if total, _ := s.tally.Totals(); total > 0 {
			msg = "You have gone through every question. Press Enter for your summary."
		}
		return centered(width, theme.Body.Render(msg))
	}

	return s.renderQuestion(width)
}

func centered(width int, content string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render("\n\n" + content)
}

func (s *Screen) renderQuestion(width int) string {
	q := s.current()
	inner := max(width-4, 20)

	var b strings.Builder

	total, correct := s.tally.Totals()
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  %s  #%d", q.Subject, q.ID))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d   %d/%d correct", s.pos+1, len(s.queue), correct, total))
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	b.WriteString(left)
	if gap > 0 {
		b.WriteString(strings.Repeat(" ", gap) + right)
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(inner).PaddingLeft(2).Foreground(theme.Text).Bold(true).
		Render(q.Statement))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(s.mc.View(inner - 4)))

	if s.phase == phaseFeedback {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(inner))
	}
	return b.String()
}

func (s *Screen) renderFeedback(width int) string {
	var b strings.Builder
	pad := lipgloss.NewStyle().PaddingLeft(2).Width(width)

	if s.mc.IsCorrect() {
		b.WriteString(pad.Render(theme.Correct.Render("Correct!")))
	} else {
		b.WriteString(pad.Render(theme.Incorrect.Render(
			fmt.Sprintf("Not quite. The answer is %s.", s.current().CorrectLetter()))))
	}
	b.WriteString("\n")

	switch {
	case s.explaining:
		b.WriteString(pad.Render(theme.Hint.Render("Fetching explanation...")))
		b.WriteString("\n")
	case s.explanation != nil:
		e := s.explanation
		b.WriteString("\n")
		b.WriteString(pad.Render(theme.Body.Render(e.Explanation)))
		b.WriteString("\n")
		if e.WhyChosenWrong != "" {
			b.WriteString(pad.Render(theme.Hint.Render(e.WhyChosenWrong)))
			b.WriteString("\n")
		}
		if e.KeyConcept != "" {
			b.WriteString(pad.Render(lipgloss.NewStyle().Foreground(theme.Secondary).
				Render("Review: " + e.KeyConcept)))
			b.WriteString("\n")
		}
		if e.Fallback {
			b.WriteString(pad.Render(theme.Notice.Render("AI assistant unavailable; showing the answer key.")))
			b.WriteString("\n")
		}
	}

	if s.saveErr != "" {
		b.WriteString(pad.Render(theme.Incorrect.Render(s.saveErr)))
		b.WriteString("\n")
	}
	return b.String()
}
