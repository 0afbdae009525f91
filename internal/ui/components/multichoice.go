package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/theme"
)

// Choice is one lettered alternative.
type Choice struct {
	Letter string
	Text   string
}

// MultiChoice lets the learner pick one alternative, either by moving
// the cursor and pressing Enter or by typing its letter. It locks after
// the first pick and then colors the right and wrong alternatives.
type MultiChoice struct {
	Choices []Choice

	cursor  int
	picked  int // -1 until submitted
	correct int // -1 when unknown
}

func NewMultiChoice(choices []Choice, correct int) MultiChoice {
	return MultiChoice{Choices: choices, picked: -1, correct: correct}
}

func (m MultiChoice) Submitted() bool { return m.picked >= 0 }

func (m *MultiChoice) pick(i int) {
	if i >= 0 && i < len(m.Choices) {
		m.cursor, m.picked = i, i
	}
}

func (m MultiChoice) letterIndex(key string) int {
	for i, c := range m.Choices {
		if strings.EqualFold(c.Letter, key) {
			return i
		}
	}
	return -1
}

func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.Submitted() {
		return m, nil
	}
	switch k := key.String(); k {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(m.Choices)-1)
	case "enter":
		m.pick(m.cursor)
	default:
		m.pick(m.letterIndex(k))
	}
	return m, nil
}

// Chosen is the submitted alternative; ok is false before submission.
func (m MultiChoice) Chosen() (c Choice, ok bool) {
	if !m.Submitted() {
		return Choice{}, false
	}
	return m.Choices[m.picked], true
}

func (m MultiChoice) IsCorrect() bool {
	return m.Submitted() && m.picked == m.correct
}

func (m MultiChoice) styleFor(i int) lipgloss.Style {
	if !m.Submitted() {
		if i == m.cursor {
			return theme.Selected
		}
		return theme.Unselected
	}
	switch i {
	case m.correct:
		return theme.Correct
	case m.picked:
		return theme.Incorrect
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim)
}

// View draws one alternative per line, each wrapped to width.
func (m MultiChoice) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	lines := make([]string, len(m.Choices))
	for i, c := range m.Choices {
		mark := "  "
		if !m.Submitted() && i == m.cursor {
			mark = "› "
		}
		lines[i] = m.styleFor(i).Render(wrap.Render(fmt.Sprintf("%s%s)  %s", mark, c.Letter, c.Text)))
	}
	return strings.Join(lines, "\n") + "\n"
}
