// Package history lists the learner's answers, newest first.
package history

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/router"
	"github.com/examprep/examprep/internal/screen"
	"github.com/examprep/examprep/internal/store"
	"github.com/examprep/examprep/internal/ui/layout"
	"github.com/examprep/examprep/internal/ui/theme"
)

// listLimit caps how many answers the screen loads.
const listLimit = 200

// Answers lists and clears a user's answer history.
type Answers interface {
	List(ctx context.Context, userID string, limit int) ([]store.AnswerRecord, error)
	Clear(ctx context.Context, userID string) (int, error)
}

type (
	listedMsg struct {
		records []store.AnswerRecord
		err     error
	}
	clearedMsg struct {
		removed int
		err     error
	}
)

var keys = struct {
	up, down, toggle, clear, back, yes key.Binding
}{
	up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Navigate")),
	down:   key.NewBinding(key.WithKeys("down", "j")),
	toggle: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Details")),
	clear:  key.NewBinding(key.WithKeys("c", "C"), key.WithHelp("C", "Clear")),
	back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Clear all")),
}

func hint(b key.Binding) layout.KeyHint {
	return layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc}
}

// HistoryScreen shows one line per answered question. Enter unfolds the
// statement and alternatives; C clears everything after a y/n prompt.
type HistoryScreen struct {
	userID  string
	answers Answers

	records []store.AnswerRecord
	cursor  int
	open    map[int]bool
	vp      viewport.Model

	loaded  bool
	confirm bool
	status  string
	loadErr error
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(userID string, answers Answers) *HistoryScreen {
	return &HistoryScreen{
		userID:  userID,
		answers: answers,
		open:    map[int]bool{},
		vp:      viewport.New(),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		recs, err := s.answers.List(context.Background(), s.userID, listLimit)
		return listedMsg{recs, err}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirm {
		return []layout.KeyHint{hint(keys.yes), {Key: "N", Description: "Cancel"}}
	}
	return []layout.KeyHint{hint(keys.toggle), hint(keys.up), hint(keys.clear), hint(keys.back)}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listedMsg:
		s.loaded = true
		s.records, s.loadErr = msg.records, msg.err
	case clearedMsg:
		if msg.err != nil {
			s.loadErr = msg.err
			break
		}
		s.records, s.cursor, s.open = nil, 0, map[int]bool{}
		s.status = fmt.Sprintf("Removed %d answers.", msg.removed)
	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.confirm {
		s.confirm = false
		if key.Matches(msg, keys.yes) {
			return s.clearAll()
		}
		return nil
	}
	switch {
	case key.Matches(msg, keys.back):
		return func() tea.Msg { return router.PopScreenMsg{} }
	case key.Matches(msg, keys.up):
		s.cursor = max(s.cursor-1, 0)
	case key.Matches(msg, keys.down):
		s.cursor = max(min(s.cursor+1, len(s.records)-1), 0)
	case key.Matches(msg, keys.toggle):
		s.open[s.cursor] = !s.open[s.cursor]
	case key.Matches(msg, keys.clear):
		s.confirm = len(s.records) > 0
	}
	return nil
}

func (s *HistoryScreen) clearAll() tea.Cmd {
	return func() tea.Msg {
		n, err := s.answers.Clear(context.Background(), s.userID)
		return clearedMsg{n, err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	dim := centered.Foreground(theme.TextDim)
	switch {
	case s.loadErr != nil:
		return centered.Foreground(theme.Error).Render("\n\nError: " + s.loadErr.Error())
	case !s.loaded:
		return dim.Render("\n\nLoading history...")
	case len(s.records) == 0:
		msg := "No answers yet. Start practicing!"
		if s.status != "" {
			msg = s.status
		}
		return dim.Italic(true).Render("\n\n" + msg)
	}

	heading := dim.Render(fmt.Sprintf("%d answers, newest first", len(s.records)))
	if s.confirm {
		heading = centered.Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Clear all %d answers? (y/n)", len(s.records)))
	}

	lines, cursorLine := s.lines(width)
	s.vp.SetWidth(width)
	s.vp.SetHeight(max(height-4, 1))
	s.vp.SetContentLines(lines)
	s.vp.EnsureVisible(cursorLine, 0, 0)
	return heading + "\n\n" + s.vp.View()
}

// lines renders every record, unfolded ones included, and reports the
// index of the line holding the cursor.
func (s *HistoryScreen) lines(width int) (out []string, cursorLine int) {
	place := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }
	detailWidth := min(width-8, 80)

	for i, r := range s.records {
		row := lipgloss.NewStyle().Foreground(theme.Text)
		marker := "  "
		if i == s.cursor {
			cursorLine = len(out)
			row = row.Foreground(theme.Primary).Bold(true)
			marker = "› "
		}
		out = append(out, place(row.Render(marker+summary(r))+" "+verdict(r)))
		if !s.open[i] {
			continue
		}

		stmt := lipgloss.NewStyle().Width(detailWidth).Foreground(theme.TextDim).Render(r.Statement)
		for _, l := range strings.Split(stmt, "\n") {
			out = append(out, place(l))
		}
		for _, a := range r.Alternatives {
			st := lipgloss.NewStyle().Foreground(theme.TextDim)
			if a.Letter == r.CorrectLetter {
				st = theme.Correct
			} else if a.Letter == r.ChosenLetter {
				st = theme.Incorrect
			}
			out = append(out, place(st.Width(detailWidth).Render(a.Letter+") "+a.Text)))
		}
	}
	return out, cursorLine
}

func summary(r store.AnswerRecord) string {
	s := fmt.Sprintf("%s  #%-5d %-20s  %s→%s  %3ds",
		r.AnsweredAt.Local().Format("Jan 02 15:04"), r.QuestionID, clip(r.Subject, 20),
		r.ChosenLetter, r.CorrectLetter, r.ResponseTimeSeconds)
	if r.AttemptCount > 1 {
		s += fmt.Sprintf("  ×%d", r.AttemptCount)
	}
	return s
}

func verdict(r store.AnswerRecord) string {
	if r.IsCorrect {
		return theme.Correct.Render("✓")
	}
	return theme.Incorrect.Render("✗")
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
