// Package app hosts the Bubble Tea program: a router of screens framed by
// a header with the user's level and a footer of key hints.
package app

import (
	"context"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/screens/home"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/layout"
)

// Options configures the terminal UI.
type Options struct {
	Tracker *tracker.Tracker
	UserID  string
	Logger  *slog.Logger
}

type headerLoadedMsg struct {
	stats layout.HeaderStats
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	header layout.HeaderStats
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return AppModel{
		opts:   opts,
		router: router.New(home.New(opts.Tracker, opts.UserID)),
		header: layout.HeaderStats{User: opts.UserID, Level: 1},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadHeader)
}

// loadHeader reads the user's level and XP for the header. Failures keep
// the previous values; the screens report load errors themselves.
func (m AppModel) loadHeader() tea.Msg {
	p, err := m.opts.Tracker.Progress(context.Background(), m.opts.UserID)
	if err != nil {
		m.opts.Logger.Warn("header progress load failed", "user", m.opts.UserID, "error", err)
		return nil
	}
	return headerLoadedMsg{stats: layout.HeaderStats{
		User:       m.opts.UserID,
		Level:      p.Level,
		TotalXP:    p.TotalXP,
		LevelXP:    p.LevelProgress(),
		LevelWidth: progress.XPPerLevel,
	}}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerLoadedMsg:
		m.header = msg.stats
		return m, nil

	case screen.ProgressChangedMsg:
		return m, tea.Batch(m.loadHeader, m.router.Update(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Back
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.header, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Tracker == nil {
		return fmt.Errorf("app: tracker is required")
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
