// Package app is the root Bubble Tea model of the terminal UI.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/examprep/internal/bank"
	"github.com/examprep/examprep/internal/history"
	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/screen"
	historyscreen "github.com/examprep/examprep/internal/screens/history"
	"github.com/examprep/examprep/internal/screens/home"
	perfscreen "github.com/examprep/examprep/internal/screens/performance"
	planscreen "github.com/examprep/examprep/internal/screens/plan"
	"github.com/examprep/examprep/internal/screens/practice"
	"github.com/examprep/examprep/internal/studyaid"
	"github.com/examprep/examprep/internal/ui/layout"
)

// Options carries the services the UI runs on. StudyAid may be nil.
type Options struct {
	UserID      string
	Bank        *bank.Cache
	History     *history.Service
	Planner     *schedule.Service
	StudyAid    *studyaid.Service
	Strategy    schedule.Strategy
	WeeklyHours float64
	Weeks       int
	Log         *logger.Logger
}

// Stats reports per-subject accuracy for the header.
type Stats interface {
	Performance(ctx context.Context, userID string) ([]performance.SubjectPerformance, error)
}

type headerStatsMsg struct {
	Overall performance.SubjectPerformance
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	userID  string
	stats   Stats
	overall performance.SubjectPerformance
	width   int
	height  int
}

// newAppModel wires the screens to opts and starts on the home screen.
func newAppModel(opts Options) AppModel {
	opts.Log = logger.OrNop(opts.Log)

	practiceDeps := practice.Deps{
		UserID:    opts.UserID,
		Questions: opts.Bank,
		Answers:   opts.History,
		Log:       opts.Log,
	}
	planDeps := planscreen.Deps{
		UserID:      opts.UserID,
		Planner:     opts.Planner,
		Stats:       opts.History,
		Strategy:    opts.Strategy,
		WeeklyHours: opts.WeeklyHours,
		Weeks:       opts.Weeks,
		Log:         opts.Log,
	}
	if opts.StudyAid != nil {
		practiceDeps.Explainer = opts.StudyAid
		planDeps.Advisor = opts.StudyAid
	}

	homeScreen := home.New(home.Deps{
		UserID: opts.UserID,
		Bank:   opts.Bank,
		Stats:  opts.History,
		Practice: func() screen.Screen {
			return practice.New(practiceDeps)
		},
		Plan: func() screen.Screen {
			return planscreen.New(planDeps)
		},
		Performance: func() screen.Screen {
			return perfscreen.New(opts.UserID, opts.History)
		},
		History: func() screen.Screen {
			return historyscreen.New(opts.UserID, opts.History)
		},
	})

	m := AppModel{
		router: router.New(homeScreen),
		userID: opts.UserID,
	}
	if opts.History != nil {
		m.stats = opts.History
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadHeaderStats())
}

func (m AppModel) loadHeaderStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	stats, userID := m.stats, m.userID
	return func() tea.Msg {
		perfs, err := stats.Performance(context.Background(), userID)
		if err != nil {
			return nil
		}
		var o performance.SubjectPerformance
		for _, p := range perfs {
			o.TotalAnswered += p.TotalAnswered
			o.CorrectCount += p.CorrectCount
		}
		o.AccuracyPercent = performance.Accuracy(o.CorrectCount, o.TotalAnswered)
		return headerStatsMsg{Overall: o}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerStatsMsg:
		m.overall = msg.Overall
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case router.PopScreenMsg, router.PopToRootMsg, router.ReplaceScreenMsg:
		// Navigation away from a screen may follow new answers.
		return m, tea.Batch(m.router.Update(msg), m.loadHeaderStats())
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(layout.Header{
		Title:    title,
		User:     m.userID,
		Accuracy: m.overall.AccuracyPercent,
		Answered: m.overall.TotalAnswered,
	}, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, "", m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
