package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examprep/examprep/internal/ui/theme"
)

// TextInput is a focused bubbles text field. With NumericOnly set,
// printable keys other than digits and one decimal point are dropped.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	problem     string
}

func NewTextInput(placeholder string, numericOnly bool, charLimit int) TextInput {
	field := textinput.New()
	field.Placeholder = placeholder
	if charLimit > 0 {
		field.CharLimit = charLimit
	}
	field.Focus()
	return TextInput{Model: field, NumericOnly: numericOnly}
}

func (t TextInput) accepts(key string) bool {
	if !t.NumericOnly || len(key) != 1 {
		return true
	}
	switch c := key[0]; {
	case c >= '0' && c <= '9':
		return true
	case c == '.':
		return !strings.Contains(t.Model.Value(), ".")
	}
	return false
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !t.accepts(key.String()) {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	t.problem = ""
	return t, cmd
}

func (t TextInput) View() string {
	if t.problem == "" {
		return t.Model.View()
	}
	return t.Model.View() + "  " + lipgloss.NewStyle().Foreground(theme.Error).Render(t.problem)
}

func (t TextInput) Value() string { return t.Model.Value() }

func (t *TextInput) SetValue(v string) { t.Model.SetValue(v) }

// FloatValue parses the trimmed value.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Model.Value()), 64)
}

// SetError shows msg beside the field until the next accepted key.
func (t *TextInput) SetError(msg string) { t.problem = msg }
