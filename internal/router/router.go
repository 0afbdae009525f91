// Package router keeps the stack of TUI screens. Screens navigate by
// returning one of the *Msg commands below rather than touching the stack.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/examprep/examprep/internal/screen"
)

type (
	// PushScreenMsg opens Screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }
	// PopScreenMsg closes the current screen.
	PopScreenMsg struct{}
	// ReplaceScreenMsg swaps the current screen for Screen.
	ReplaceScreenMsg struct{ Screen screen.Screen }
	// PopToRootMsg closes every screen above the first.
	PopToRootMsg struct{}
)

// Router is a non-empty stack of screens; only the top one receives
// input and is drawn.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop never removes the root. The screen it reveals gets Resume called
// when it implements screen.Resumer.
func (r *Router) Pop() tea.Cmd {
	if r.top() < 1 {
		return nil
	}
	r.stack[r.top()] = nil
	r.stack = r.stack[:r.top()]
	return resume(r.Active())
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[r.top()] = s
	return s.Init()
}

// PopToRoot drops everything above the root and re-inits it.
func (r *Router) PopToRoot() tea.Cmd {
	clear(r.stack[1:])
	r.stack = r.stack[:1]
	return r.stack[0].Init()
}

func resume(s screen.Screen) tea.Cmd {
	if rs, ok := s.(screen.Resumer); ok {
		return rs.Resume()
	}
	return nil
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case PushScreenMsg:
		return r.Push(m.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(m.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}
	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.Active().Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
