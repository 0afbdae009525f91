// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/screen"
	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/layout"
	"github.com/examprep/examprep/internal/ui/theme"
)

// Bank exposes the loaded question bank. Refresh drops a copy made stale
// by an import from another process.
type Bank interface {
	Refresh(ctx context.Context) error
	All(ctx context.Context) ([]ingest.Question, error)
}

// Stats reports per-subject accuracy for a user.
type Stats interface {
	Performance(ctx context.Context, userID string) ([]performance.SubjectPerformance, error)
}

// Deps wires the home screen. The screen constructors are called each time
// their menu item is chosen; a nil constructor disables the item.
type Deps struct {
	UserID      string
	Bank        Bank
	Stats       Stats
	Practice    func() screen.Screen
	Plan        func() screen.Screen
	Performance func() screen.Screen
	History     func() screen.Screen
}

type statsLoadedMsg struct {
	Questions int
	Subjects  int
	Overall   performance.SubjectPerformance
	Err       error
}

// HomeScreen is the root screen of the application.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	stats  statsLoadedMsg
	loaded bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	items := []components.MenuItem{
		navItem("Practice", deps.Practice),
		navItem("Study Plan", deps.Plan),
		navItem("Performance", deps.Performance),
		navItem("History", deps.History),
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
}

func navItem(label string, build func() screen.Screen) components.MenuItem {
	if build == nil {
		return components.MenuItem{Label: label, Disabled: true}
	}
	return components.MenuItem{Label: label, Action: func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
	}}
}

// Init loads the dashboard numbers.
func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume refreshes the dashboard after returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	bank, stats, userID := h.deps.Bank, h.deps.Stats, h.deps.UserID
	return func() tea.Msg {
		ctx := context.Background()
		var msg statsLoadedMsg
		if bank != nil {
			if err := bank.Refresh(ctx); err != nil {
				return statsLoadedMsg{Err: err}
			}
			qs, err := bank.All(ctx)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			msg.Questions = len(qs)
			seen := make(map[string]bool)
			for _, q := range qs {
				seen[q.Subject] = true
			}
			msg.Subjects = len(seen)
		}
		if stats != nil {
			perfs, err := stats.Performance(ctx, userID)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			for _, p := range perfs {
				msg.Overall.TotalAnswered += p.TotalAnswered
				msg.Overall.CorrectCount += p.CorrectCount
			}
			msg.Overall.AccuracyPercent = performance.Accuracy(msg.Overall.CorrectCount, msg.Overall.TotalAnswered)
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.stats = msg
		h.loaded = true
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var sections []string
	sections = append(sections, center.Render(theme.Title.Render("examprep")))
	sections = append(sections, center.Render(theme.Subtitle.Render("practice questions, track accuracy, plan the week")))
	sections = append(sections, components.Card(h.renderStats(cw-6), cw))
	sections = append(sections, h.menu.View(cw-4))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderStats(width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	line := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch {
	case !h.loaded:
		return line.Render(dim.Render("Loading..."))
	case h.stats.Err != nil:
		return line.Render(theme.Incorrect.Render(h.stats.Err.Error()))
	case h.stats.Questions == 0:
		return line.Render(theme.Notice.Render("No questions yet. Run `examprep import <file>` to load a bank."))
	}

	bank := fmt.Sprintf("%d questions in %d subjects", h.stats.Questions, h.stats.Subjects)
	acc := dim.Render("no answers yet")
	if o := h.stats.Overall; o.TotalAnswered > 0 {
		acc = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("%.0f%% accuracy over %d answers", o.AccuracyPercent, o.TotalAnswered))
	}
	return line.Render(theme.Body.Render(bank)) + "\n" + line.Render(acc)
}
