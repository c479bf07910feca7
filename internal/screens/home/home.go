package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/screens/history"
	"github.com/abhisek/careertree/internal/screens/questions"
	"github.com/abhisek/careertree/internal/screens/skillmap"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/components"
	"github.com/abhisek/careertree/internal/ui/theme"
)

type loadedMsg struct {
	stats eligibility.GraphStats
	next  []string
	err   error
}

// HomeScreen shows the user's level and status counts above the main menu.
type HomeScreen struct {
	tracker *tracker.Tracker
	userID  string

	menu   components.Menu
	stats  eligibility.GraphStats
	next   []string
	loaded bool
	err    error
}

var (
	_ screen.Screen    = (*HomeScreen)(nil)
	_ screen.Refresher = (*HomeScreen)(nil)
)

// New creates a new HomeScreen for userID.
func New(t *tracker.Tracker, userID string) *HomeScreen {
	h := &HomeScreen{tracker: t, userID: userID}

	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd { return router.Push(build()) }
	}
	h.menu = components.NewMenu([]components.MenuItem{
		{
			Label:       "SKILL TREE",
			Shortcut:    "t",
			Description: "Browse nodes, start and complete them",
			Action:      push(func() screen.Screen { return skillmap.New(t, userID) }),
		},
		{
			Label:       "PERSONALIZE",
			Shortcut:    "p",
			Description: "Answer a few questions for an AI career path",
			Action:      push(func() screen.Screen { return questions.New(t, userID) }),
			Disabled:    !t.CanPersonalize(),
		},
		{
			Label:       "HISTORY",
			Shortcut:    "h",
			Description: "Completions and merged paths",
			Action:      push(func() screen.Screen { return history.New(t, userID) }),
		},
		{Label: "QUIT", Shortcut: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load
}

// Refresh reloads the stats after a child screen changed progress.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.load
}

func (h *HomeScreen) load() tea.Msg {
	g, err := h.tracker.Graph(context.Background(), h.userID)
	if err != nil {
		return loadedMsg{err: err}
	}
	// Recommended nodes come before merely available ones.
	var next []string
	for _, want := range []eligibility.Status{eligibility.StatusRecommended, eligibility.StatusAvailable} {
		for _, n := range g.Nodes {
			if n.Status == want && len(next) < 3 {
				next = append(next, n.Title)
			}
		}
	}
	return loadedMsg{stats: g.Stats, next: next}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.loaded = true
		h.err = msg.err
		h.stats = msg.stats
		h.next = msg.next
		return h, nil
	case screen.ProgressChangedMsg:
		return h, h.load
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-8, 64)

	var sections []string
	sections = append(sections, theme.Title.Render("Plan your path, one node at a time"))

	switch {
	case h.err != nil:
		sections = append(sections, theme.ErrorText.Render("Could not load progress: "+h.err.Error()))
	case !h.loaded:
		sections = append(sections, theme.Dim.Render("Loading progress..."))
	default:
		sections = append(sections, h.renderStats(cw))
	}

	if !h.tracker.CanPersonalize() {
		sections = append(sections, theme.Hint.Render("Configure an AI provider to enable personalization."))
	}
	sections = append(sections, h.menu.View())

	content := theme.Card.Width(cw + 4).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) renderStats(width int) string {
	s := h.stats
	lines := []string{
		theme.Body.Render(fmt.Sprintf("Level %d  ·  %d XP", s.Level, s.TotalXP)),
		components.NewProgressBar("Next level", s.TotalXP%progress.XPPerLevel, progress.XPPerLevel, width).View(),
		components.NewProgressBar("Completed ", s.Completed, s.TotalNodes, width).View(),
		fmt.Sprintf("%s   %s   %s",
			components.StatusStyle(eligibility.StatusRecommended).Render(fmt.Sprintf("★ %d recommended", s.Recommended)),
			components.StatusStyle(eligibility.StatusAvailable).Render(fmt.Sprintf("◐ %d available", s.Available)),
			components.StatusStyle(eligibility.StatusLocked).Render(fmt.Sprintf("○ %d locked", s.Locked)),
		),
	}
	if len(h.next) > 0 {
		lines = append(lines, "", theme.Section.Render("Up next"))
		for _, title := range h.next {
			lines = append(lines, theme.Body.Render("  → "+title))
		}
	}
	return strings.Join(lines, "\n")
}

func (h *HomeScreen) Title() string {
	return "Home"
}
