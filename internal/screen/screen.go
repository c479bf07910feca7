// Package screen defines what the router stacks and the messages screens
// share with the app.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careertree/internal/ui/layout"
)

// Screen is one page of the TUI. View renders only the body; the app
// draws the header with level and XP and the footer with key hints.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Refresher reloads data when the screen is revealed again.
type Refresher interface {
	Refresh() tea.Cmd
}

// ProgressChangedMsg is sent after a completion, start or merge was
// saved. The app reloads the header and passes it to the active screen.
type ProgressChangedMsg struct{}

// ProgressChanged is a tea.Cmd emitting ProgressChangedMsg.
func ProgressChanged() tea.Msg { return ProgressChangedMsg{} }
