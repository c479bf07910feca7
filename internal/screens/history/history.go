package history

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/store"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/layout"
	"github.com/abhisek/careertree/internal/ui/theme"
)

const historyLimit = 50

// entry is one line of the combined timeline.
type entry struct {
	at       time.Time
	sequence int64
	summary  string
	details  []string
}

type historyLoadedMsg struct {
	entries []entry
	err     error
}

// HistoryScreen lists completions and personalization runs, newest first.
type HistoryScreen struct {
	tracker  *tracker.Tracker
	userID   string
	entries  []entry
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

// New creates a new HistoryScreen.
func New(t *tracker.Tracker, userID string) *HistoryScreen {
	return &HistoryScreen{
		tracker:  t,
		userID:   userID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		a, err := s.tracker.History(context.Background(), s.userID, store.QueryOpts{Limit: historyLimit})
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{entries: timeline(a)}
	}
}

// timeline merges both event kinds by sequence, newest first.
func timeline(a tracker.Activity) []entry {
	var out []entry
	for _, c := range a.Completions {
		e := entry{
			at:       c.Timestamp,
			sequence: c.Sequence,
			summary:  fmt.Sprintf("Completed %s  +%d XP  (level %d)", c.NodeID, c.XPAwarded, c.Level),
		}
		for _, key := range c.Achievements {
			e.details = append(e.details, "achievement "+key)
		}
		out = append(out, e)
	}
	for _, m := range a.Merges {
		e := entry{
			at:       m.Timestamp,
			sequence: m.Sequence,
			summary:  fmt.Sprintf("Personalized: %s  (%d added, %d updated)", m.Title, len(m.Added), len(m.Replaced)),
		}
		if len(m.RecommendedPath) > 0 {
			e.details = append(e.details, "path "+strings.Join(m.RecommendedPath, " → "))
		}
		e.details = append(e.details, m.Warnings...)
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y entry) int { return cmp.Compare(y.sequence, x.sequence) })
	return out
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.entries = msg.entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return s, router.Back
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	case len(s.entries) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  Nothing yet. Complete a node to get started!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.entries {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %s", prefix, e.at.Local().Format("Jan 02 15:04"), e.summary)
		b.WriteString(style.PaddingLeft(2).Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			if len(e.details) == 0 {
				b.WriteString(theme.Hint.PaddingLeft(6).Render("no details"))
				b.WriteString("\n")
			}
			for _, d := range e.details {
				b.WriteString(theme.Dim.PaddingLeft(6).Render(d))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
