// Package plan shows the latest study plan and generates new ones.
package plan

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/screen"
	"github.com/examprep/examprep/internal/studyaid"
	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/layout"
)

// Planner loads and generates plans.
type Planner interface {
	Latest(ctx context.Context, userID string) (*schedule.Plan, error)
	Generate(ctx context.Context, userID string, weeklyHours float64, strategy schedule.Strategy, weeks int) (schedule.Plan, error)
}

// Stats reports per-subject accuracy.
type Stats interface {
	Performance(ctx context.Context, userID string) ([]performance.SubjectPerformance, error)
}

// Advisor writes study tips.
type Advisor interface {
	StudyTips(ctx context.Context, perfs []performance.SubjectPerformance, plan *schedule.Plan) (*studyaid.Tips, error)
}

// Deps wires the plan screen. Advisor may be nil.
type Deps struct {
	UserID      string
	Planner     Planner
	Stats       Stats
	Advisor     Advisor
	Strategy    schedule.Strategy
	WeeklyHours float64
	Weeks       int
	Log         *logger.Logger
}

type planLoadedMsg struct {
	Plan *schedule.Plan
	Err  error
}

type planGeneratedMsg struct {
	Plan schedule.Plan
	Err  error
}

type tipsLoadedMsg struct {
	Tips *studyaid.Tips
	Err  error
}

// Screen displays a plan with its generation settings.
type Screen struct {
	deps Deps

	strategy schedule.Strategy
	hours    float64
	weeks    int

	plan   *schedule.Plan
	loaded bool
	busy   bool
	status string
	errMsg string

	tips         *studyaid.Tips
	fetchingTips bool

	editing bool
	input   components.TextInput
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a plan screen seeded with the configured settings.
func New(deps Deps) *Screen {
	deps.Log = logger.OrNop(deps.Log)
	s := &Screen{
		deps:     deps,
		strategy: deps.Strategy,
		hours:    deps.WeeklyHours,
		weeks:    max(deps.Weeks, 1),
	}
	if s.strategy == "" {
		s.strategy = schedule.WeakAreasFocus
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	planner, userID := s.deps.Planner, s.deps.UserID
	return func() tea.Msg {
		p, err := planner.Latest(context.Background(), userID)
		return planLoadedMsg{Plan: p, Err: err}
	}
}

func (s *Screen) Title() string {
	return "Study Plan"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "G", Description: "Generate"},
		{Key: "S", Description: "Strategy"},
		{Key: "H", Description: "Hours"},
	}
	if s.deps.Advisor != nil && s.plan != nil {
		hints = append(hints, layout.KeyHint{Key: "T", Description: "Tips"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case planLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.plan = msg.Plan
		if msg.Plan != nil {
			s.strategy = msg.Plan.Strategy
			s.hours = msg.Plan.WeeklyHoursBudget
			s.weeks = msg.Plan.Weeks
		}
		return s, nil

	case planGeneratedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "generate failed: " + msg.Err.Error()
			return s, nil
		}
		p := msg.Plan
		s.plan = &p
		s.tips = nil
		s.errMsg = ""
		if len(p.Items) == 0 {
			s.status = "No answers yet, so there is nothing to plan. Practice first."
		} else {
			s.status = fmt.Sprintf("Plan saved: %.1f of %.1f hours allocated.", p.TotalHours(), p.WeeklyHoursBudget)
		}
		return s, nil

	case tipsLoadedMsg:
		s.fetchingTips = false
		if msg.Err != nil {
			s.errMsg = "tips failed: " + msg.Err.Error()
			return s, nil
		}
		s.tips = msg.Tips
		return s, nil

	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "s", "S":
		s.strategy = s.strategy.Next()
		s.status = ""
	case "h", "H":
		s.editing = true
		s.input = components.NewTextInput("weekly hours", true, 6)
		s.input.SetValue(fmt.Sprintf("%g", s.hours))
	case "g", "G":
		if s.busy {
			return s, nil
		}
		s.busy = true
		s.status = "Generating..."
		return s, s.generate()
	case "t", "T":
		if s.deps.Advisor == nil || s.plan == nil || s.fetchingTips {
			return s, nil
		}
		s.fetchingTips = true
		return s, s.fetchTips()
	}
	return s, nil
}

func (s *Screen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		return s, nil
	case "enter":
		v, err := s.input.FloatValue()
		if err != nil || v <= 0 {
			s.input.SetError("enter a positive number of hours")
			return s, nil
		}
		s.hours = v
		s.editing = false
		s.status = ""
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) generate() tea.Cmd {
	planner, userID := s.deps.Planner, s.deps.UserID
	hours, strategy, weeks := s.hours, s.strategy, s.weeks
	log := s.deps.Log
	return func() tea.Msg {
		p, err := planner.Generate(context.Background(), userID, hours, strategy, weeks)
		if err != nil {
			log.Error("plan generation failed", "user", userID, "error", err)
		}
		return planGeneratedMsg{Plan: p, Err: err}
	}
}

func (s *Screen) fetchTips() tea.Cmd {
	stats, advisor, userID := s.deps.Stats, s.deps.Advisor, s.deps.UserID
	plan := s.plan
	return func() tea.Msg {
		ctx := context.Background()
		perfs, err := stats.Performance(ctx, userID)
		if err != nil {
			return tipsLoadedMsg{Err: err}
		}
		tips, err := advisor.StudyTips(ctx, perfs, plan)
		return tipsLoadedMsg{Tips: tips, Err: err}
	}
}
