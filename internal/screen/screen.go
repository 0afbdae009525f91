// Package screen declares what the router needs from a TUI screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/examprep/examprep/internal/ui/layout"
)

// Screen is one page of the TUI. View draws only the area between the
// header and footer; Title labels the header.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider lets a screen choose its footer hints. Screens without
// it get a plain "Esc Back".
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer screens reload when they are revealed by a pop, since the
// screen above may have changed what they show.
type Resumer interface {
	Resume() tea.Cmd
}
