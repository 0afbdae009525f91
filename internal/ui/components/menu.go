package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled items are drawn dimmed and
// the cursor never rests on them.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of buttons driven by the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// move walks the cursor by dir until it hits an enabled item; it stays
// put when there is none in that direction.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			break
		}
		if it := m.Items[m.Selected]; !it.Disabled && it.Action != nil {
			return m, it.Action()
		}
	}
	return m, nil
}

func (m Menu) View(width int) string {
	rows := make([]string, len(m.Items))
	for i, it := range m.Items {
		rows[i] = Button(it.Label, i == m.Selected, it.Disabled, width)
	}
	return strings.Join(rows, "\n")
}

var buttonBase = lipgloss.NewStyle().
	Align(lipgloss.Center).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// Button draws a bordered, centered label. The selected button is filled
// and prefixed with a cursor mark.
func Button(label string, selected, disabled bool, width int) string {
	st := buttonBase.Width(width)
	if disabled {
		return st.Foreground(theme.TextDim).Render(label)
	}
	if selected {
		return st.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Primary).
			BorderForeground(theme.Primary).
			Render("› " + label)
	}
	return st.Foreground(theme.Text).Render(label)
}
