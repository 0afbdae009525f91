// Package practice implements the multiple-choice practice loop.
package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/screen"
	"github.com/examprep/examprep/internal/screens/summary"
	"github.com/examprep/examprep/internal/store"
	"github.com/examprep/examprep/internal/studyaid"
	"github.com/examprep/examprep/internal/ui/components"
	"github.com/examprep/examprep/internal/ui/layout"
)

// Questions serves the practice queue.
type Questions interface {
	Refresh(ctx context.Context) error
	Subjects(ctx context.Context) ([]string, error)
	Queue(ctx context.Context, subject string, answered map[int]bool) ([]ingest.Question, error)
}

// Answers records answers.
type Answers interface {
	Submit(ctx context.Context, userID string, q ingest.Question, chosen string, responseTime time.Duration) (*store.AnswerRecord, error)
	AnsweredSet(ctx context.Context, userID string) (map[int]bool, error)
}

// Explainer produces explanations in the background. ConsumeExplanation
// reports ok once the latest request has finished.
type Explainer interface {
	Available() bool
	RequestExplanation(ctx context.Context, q ingest.Question, chosen string)
	ConsumeExplanation() (*studyaid.Explanation, bool)
}

// Deps are the services the practice screen needs. Explainer may be nil.
type Deps struct {
	UserID    string
	Questions Questions
	Answers   Answers
	Explainer Explainer
	Log       *logger.Logger
	Now       func() time.Time
}

type phase int

const (
	phasePicking phase = iota
	phaseLoading
	phaseQuestion
	phaseFeedback
	phaseDone
)

const explainPollInterval = 150 * time.Millisecond

// Screen is the practice loop.
type Screen struct {
	deps      Deps
	sessionID string
	phase     phase

	picker   components.Menu
	subjects []string
	subject  string

	queue []ingest.Question
	pos   int
	mc    components.MultiChoice
	shown time.Time

	confirmQuit bool
	explaining  bool
	explanation *studyaid.Explanation
	saveErr     string
	errMsg      string

	tally   summary.Tally
	started time.Time
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a practice screen.
func New(deps Deps) *Screen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	deps.Log = logger.OrNop(deps.Log)
	return &Screen{
		deps:      deps,
		sessionID: uuid.NewString(),
		phase:     phasePicking,
		tally:     summary.NewTally(),
	}
}

func (s *Screen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.deps.Questions.Refresh(ctx); err != nil {
			return subjectsLoadedMsg{Err: err}
		}
		subjects, err := s.deps.Questions.Subjects(ctx)
		return subjectsLoadedMsg{Subjects: subjects, Err: err}
	}
}

func (s *Screen) Title() string {
	if s.subject != "" {
		return "Practice: " + s.subject
	}
	return "Practice"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End practice"},
			{Key: "N", Description: "Keep going"},
		}
	case s.phase == phaseQuestion:
		return []layout.KeyHint{
			{Key: "A-E", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "End"},
		}
	case s.phase == phaseFeedback:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if s.explanation == nil && !s.explaining {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "End"})
	case s.phase == phasePicking:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subjectsLoadedMsg:
		return s.handleSubjects(msg)
	case queueLoadedMsg:
		return s.handleQueue(msg)
	case answerSavedMsg:
		if msg.Err != nil {
			s.saveErr = "answer not saved: " + msg.Err.Error()
		}
		return s, nil
	case explainPollMsg:
		return s.handleExplainPoll()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleSubjects(msg subjectsLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.subjects = msg.Subjects
	if len(msg.Subjects) <= 1 {
		return s, s.start("")
	}

	items := []components.MenuItem{{Label: "All subjects", Action: s.startAction("")}}
	for _, subj := range msg.Subjects {
		items = append(items, components.MenuItem{Label: subj, Action: s.startAction(subj)})
	}
	s.picker = components.NewMenu(items)
	return s, nil
}

func (s *Screen) startAction(subject string) func() tea.Cmd {
	return func() tea.Cmd { return s.start(subject) }
}

func (s *Screen) start(subject string) tea.Cmd {
	s.subject = subject
	s.phase = phaseLoading
	s.started = s.deps.Now()
	s.deps.Log.Info("practice session started", "session_id", s.sessionID, "user", s.deps.UserID, "subject", subject)
	return func() tea.Msg {
		ctx := context.Background()
		answered, err := s.deps.Answers.AnsweredSet(ctx, s.deps.UserID)
		if err != nil {
			return queueLoadedMsg{Err: err}
		}
		queue, err := s.deps.Questions.Queue(ctx, subject, answered)
		return queueLoadedMsg{Queue: queue, Err: err}
	}
}

func (s *Screen) handleQueue(msg queueLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.queue = msg.Queue
	s.pos = 0
	if len(s.queue) == 0 {
		s.phase = phaseDone
		return s, nil
	}
	s.showQuestion()
	return s, nil
}

func (s *Screen) showQuestion() {
	q := s.queue[s.pos]
	choices := make([]components.Choice, len(q.Alternatives))
	correct := -1
	for i, a := range q.Alternatives {
		choices[i] = components.Choice{Letter: a.Letter, Text: a.Text}
		if a.IsCorrect && correct < 0 {
			correct = i
		}
	}
	s.mc = components.NewMultiChoice(choices, correct)
	s.phase = phaseQuestion
	s.explanation = nil
	s.explaining = false
	s.saveErr = ""
	s.shown = s.deps.Now()
}

func (s *Screen) current() ingest.Question {
	return s.queue[s.pos]
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.errMsg != "" {
		if key == "esc" || key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	switch s.phase {
	case phasePicking:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		return s, cmd

	case phaseLoading:
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}

	case phaseQuestion:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		s.mc, _ = s.mc.Update(msg)
		if s.mc.Submitted() {
			return s, s.submit()
		}

	case phaseFeedback:
		switch key {
		case "esc":
			s.confirmQuit = true
		case "e", "E":
			return s, s.requestExplanation()
		case "enter", "n", "N", "space", " ":
			return s, s.next()
		}

	case phaseDone:
		if key == "esc" || key == "enter" {
			return s, s.finish()
		}
	}
	return s, nil
}

func (s *Screen) submit() tea.Cmd {
	q := s.current()
	choice, _ := s.mc.Chosen()
	elapsed := s.deps.Now().Sub(s.shown)
	s.tally.Add(q.Subject, s.mc.IsCorrect())
	s.phase = phaseFeedback

	userID := s.deps.UserID
	return func() tea.Msg {
		rec, err := s.deps.Answers.Submit(context.Background(), userID, q, choice.Letter, elapsed)
		return answerSavedMsg{Record: rec, Err: err}
	}
}

func (s *Screen) next() tea.Cmd {
	s.pos++
	if s.pos >= len(s.queue) {
		s.phase = phaseDone
		return nil
	}
	s.showQuestion()
	return nil
}

func (s *Screen) requestExplanation() tea.Cmd {
	if s.deps.Explainer == nil || s.explaining || s.explanation != nil {
		return nil
	}
	choice, _ := s.mc.Chosen()
	s.deps.Explainer.RequestExplanation(context.Background(), s.current(), choice.Letter)
	s.explaining = true
	return pollExplanation()
}

func pollExplanation() tea.Cmd {
	return tea.Tick(explainPollInterval, func(t time.Time) tea.Msg { return explainPollMsg(t) })
}

func (s *Screen) handleExplainPoll() (screen.Screen, tea.Cmd) {
	if !s.explaining || s.deps.Explainer == nil {
		return s, nil
	}
	e, ok := s.deps.Explainer.ConsumeExplanation()
	if !ok {
		return s, pollExplanation()
	}
	s.explaining = false
	if e != nil && s.phase == phaseFeedback && e.QuestionID == s.current().ID {
		s.explanation = e
	}
	return s, nil
}

// finish replaces the practice screen with its summary, or pops it when
// nothing was answered.
func (s *Screen) finish() tea.Cmd {
	s.confirmQuit = false
	total, correct := s.tally.Totals()
	s.deps.Log.Info("practice session ended",
		"session_id", s.sessionID, "user", s.deps.UserID, "answered", total, "correct", correct)
	if total == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	result := s.tally.Result(s.deps.Now().Sub(s.started))
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(result)} }
}
