// Package performance shows per-subject accuracy and priority tiers.
package performance

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	perf "github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/screen"
	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/layout"
	"github.com/examprep/examprep/internal/ui/theme"
)

// Stats reports per-subject accuracy.
type Stats interface {
	Performance(ctx context.Context, userID string) ([]perf.SubjectPerformance, error)
}

type loadedMsg struct {
	Perfs []perf.SubjectPerformance
	Err   error
}

// Screen lists subjects weakest first.
type Screen struct {
	userID string
	stats  Stats
	perfs  []perf.SubjectPerformance
	loaded bool
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(userID string, stats Stats) *Screen {
	return &Screen{userID: userID, stats: stats}
}

func (s *Screen) Init() tea.Cmd {
	stats, userID := s.stats, s.userID
	return func() tea.Msg {
		perfs, err := stats.Performance(context.Background(), userID)
		return loadedMsg{Perfs: perfs, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Performance"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.perfs = append([]perf.SubjectPerformance(nil), msg.Perfs...)
		sort.SliceStable(s.perfs, func(i, j int) bool {
			if s.perfs[i].AccuracyPercent != s.perfs[j].AccuracyPercent {
				return s.perfs[i].AccuracyPercent < s.perfs[j].AccuracyPercent
			}
			return s.perfs[i].Subject < s.perfs[j].Subject
		})
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case !s.loaded:
		body = theme.Hint.Render("Loading...")
	case s.errMsg != "":
		body = theme.Incorrect.Render(s.errMsg)
	case len(s.perfs) == 0:
		body = theme.Hint.Render("No answers yet. Practice to see your accuracy per subject.")
	default:
		body = s.renderSubjects(cw)
	}
	return components.Frame(body, width, height)
}

func (s *Screen) renderSubjects(cw int) string {
	var b strings.Builder
	var total, correct int
	for _, p := range s.perfs {
		total += p.TotalAnswered
		correct += p.CorrectCount
	}
	b.WriteString(theme.Title.Width(cw).Render(
		fmt.Sprintf("Overall: %.0f%% (%d / %d)", perf.Accuracy(correct, total), correct, total)))
	b.WriteString("\n\n")

	tierWidth := 10
	for _, p := range s.perfs {
		tier := schedule.Classify(p.AccuracyPercent)
		bar := components.NewProgressBar(p.Subject, p.AccuracyPercent/100, true, cw-tierWidth-2)
		bar.LabelWidth = 22
		bar.Fill = theme.TierColor(string(tier))
		label := lipgloss.NewStyle().Width(tierWidth).Foreground(theme.TierColor(string(tier))).Render(string(tier))
		counts := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%d / %d", p.CorrectCount, p.TotalAnswered))
		b.WriteString(bar.View() + "  " + label + "\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(24).Render(counts) + "\n")
	}
	return b.String()
}
