// Package summary shows the results of a finished practice session.
package summary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/screen"
	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/layout"
	"github.com/examprep/examprep/internal/ui/theme"
)

// Tally counts answers per subject during a session.
type Tally struct {
	order   []string
	answers map[string]*performance.SubjectPerformance
}

func NewTally() Tally {
	return Tally{answers: make(map[string]*performance.SubjectPerformance)}
}

// Add records one answer.
func (t *Tally) Add(subject string, correct bool) {
	p, ok := t.answers[subject]
	if !ok {
		p = &performance.SubjectPerformance{Subject: subject}
		t.answers[subject] = p
		t.order = append(t.order, subject)
	}
	p.TotalAnswered++
	if correct {
		p.CorrectCount++
	}
	p.AccuracyPercent = performance.Accuracy(p.CorrectCount, p.TotalAnswered)
}

// Totals returns the answered and correct counts.
func (t Tally) Totals() (total, correct int) {
	for _, p := range t.answers {
		total += p.TotalAnswered
		correct += p.CorrectCount
	}
	return total, correct
}

// Result freezes the tally.
func (t Tally) Result(d time.Duration) Result {
	r := Result{Duration: d}
	r.Total, r.Correct = t.Totals()
	for _, s := range t.order {
		r.Subjects = append(r.Subjects, *t.answers[s])
	}
	sort.SliceStable(r.Subjects, func(i, j int) bool {
		return r.Subjects[i].AccuracyPercent < r.Subjects[j].AccuracyPercent
	})
	return r
}

// Result is a finished session, weakest subject first.
type Result struct {
	Duration time.Duration
	Total    int
	Correct  int
	Subjects []performance.SubjectPerformance
}

// Accuracy is the session accuracy percentage.
func (r Result) Accuracy() float64 {
	return performance.Accuracy(r.Correct, r.Total)
}

// Screen displays a Result.
type Screen struct {
	result Result
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(result Result) *Screen {
	return &Screen{result: result}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Session Summary"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	r := s.result
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Practice complete!"))
	b.WriteString("\n\n")

	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("Time: %d:%02d", mins, secs)))
	b.WriteString("\n")

	accStyle := theme.Correct
	if r.Accuracy() < schedule.HighBelow {
		accStyle = theme.Incorrect
	}
	b.WriteString(center.Render(fmt.Sprintf("%s  %s",
		theme.Body.Render(fmt.Sprintf("%d / %d correct", r.Correct, r.Total)),
		accStyle.Render(fmt.Sprintf("%.0f%%", r.Accuracy())),
	)))
	b.WriteString("\n\n")

	for _, p := range r.Subjects {
		tier := schedule.Classify(p.AccuracyPercent)
		bar := components.NewProgressBar(p.Subject, p.AccuracyPercent/100, true, cw)
		bar.LabelWidth = 24
		bar.Fill = theme.TierColor(string(tier))
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	return components.Frame(b.String(), width, height)
}
