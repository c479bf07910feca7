// Package router keeps the TUI's screen stack. Screens never touch the
// stack directly; they return the commands below and the app forwards
// the resulting messages here.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careertree/internal/screen"
)

type (
	PushScreenMsg    struct{ Screen screen.Screen }
	ReplaceScreenMsg struct{ Screen screen.Screen }
	PopScreenMsg     struct{}
	// HomeMsg unwinds the stack to the root screen.
	HomeMsg struct{}
)

func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return PushScreenMsg{Screen: s} }
}

func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceScreenMsg{Screen: s} }
}

func Back() tea.Msg { return PopScreenMsg{} }

func Home() tea.Msg { return HomeMsg{} }

// Router is a stack of screens whose top is the active one. The root is
// never popped.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Active() screen.Screen { return r.stack[len(r.stack)-1] }

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		r.stack = append(r.stack, msg.Screen)
		return msg.Screen.Init()
	case ReplaceScreenMsg:
		r.stack[len(r.stack)-1] = msg.Screen
		return msg.Screen.Init()
	case PopScreenMsg:
		return r.unwind(len(r.stack) - 1)
	case HomeMsg:
		return r.unwind(1)
	}
	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// unwind truncates the stack to depth screens and refreshes whatever is
// revealed.
func (r *Router) unwind(depth int) tea.Cmd {
	if depth < 1 || depth >= len(r.stack) {
		return nil
	}
	clear(r.stack[depth:])
	r.stack = r.stack[:depth]
	if rf, ok := r.Active().(screen.Refresher); ok {
		return rf.Refresh()
	}
	return nil
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
