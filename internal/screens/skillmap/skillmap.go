package skillmap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/components"
	"github.com/abhisek/careertree/internal/ui/layout"
	"github.com/abhisek/careertree/internal/ui/theme"
)

type rowKind int

const (
	rowCategoryHeader rowKind = iota
	rowNode
)

type row struct {
	kind     rowKind
	category skilltree.Category
	node     *eligibility.GraphNode
}

type graphLoadedMsg struct {
	graph eligibility.Graph
	err   error
}

// SkillMapScreen lists the user's catalog by category with each node's
// status.
type SkillMapScreen struct {
	tracker *tracker.Tracker
	userID  string

	graph        eligibility.Graph
	rows         []row
	cursor       int
	scrollOffset int
	loaded       bool
	err          error
}

var (
	_ screen.Screen          = (*SkillMapScreen)(nil)
	_ screen.KeyHintProvider = (*SkillMapScreen)(nil)
	_ screen.Refresher       = (*SkillMapScreen)(nil)
)

// New creates a new SkillMapScreen.
func New(t *tracker.Tracker, userID string) *SkillMapScreen {
	return &SkillMapScreen{tracker: t, userID: userID}
}

func (s *SkillMapScreen) Init() tea.Cmd {
	return s.load
}

// Refresh reloads statuses after the detail screen is popped.
func (s *SkillMapScreen) Refresh() tea.Cmd {
	return s.load
}

func (s *SkillMapScreen) load() tea.Msg {
	g, err := s.tracker.Graph(context.Background(), s.userID)
	return graphLoadedMsg{graph: g, err: err}
}

func (s *SkillMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case graphLoadedMsg:
		s.loaded = true
		s.err = msg.err
		if msg.err == nil {
			s.setGraph(msg.graph)
		}
	case screen.ProgressChangedMsg:
		return s, s.load
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.moveCursor(-1)
		case "down", "j":
			s.moveCursor(1)
		case "tab":
			s.jumpCategory(1)
		case "shift+tab":
			s.jumpCategory(-1)
		case "enter":
			return s, s.selectNode()
		case "q":
			return s, router.Back
		}
	}
	return s, nil
}

// setGraph rebuilds the rows and keeps the cursor on the same node.
func (s *SkillMapScreen) setGraph(g eligibility.Graph) {
	var current string
	if s.cursor < len(s.rows) && s.rows[s.cursor].node != nil {
		current = s.rows[s.cursor].node.ID
	}

	s.graph = g
	byCategory := make(map[skilltree.Category][]int)
	for i, n := range g.Nodes {
		byCategory[n.Category] = append(byCategory[n.Category], i)
	}

	s.rows = s.rows[:0]
	for _, cat := range skilltree.AllCategories() {
		idx := byCategory[cat]
		if len(idx) == 0 {
			continue
		}
		s.rows = append(s.rows, row{kind: rowCategoryHeader, category: cat})
		for _, i := range idx {
			s.rows = append(s.rows, row{kind: rowNode, category: cat, node: &s.graph.Nodes[i]})
		}
	}

	s.cursor = 0
	for i, r := range s.rows {
		if r.kind != rowNode {
			continue
		}
		if s.cursor == 0 || r.node.ID == current {
			s.cursor = i
		}
		if r.node.ID == current {
			break
		}
	}
}

func (s *SkillMapScreen) View(width, height int) string {
	switch {
	case s.err != nil:
		return theme.ErrorText.Render("\n  Could not load the tree: " + s.err.Error())
	case !s.loaded:
		return theme.Dim.Render("\n  Loading tree...")
	case len(s.rows) == 0:
		return theme.Hint.Render("\n  The catalog is empty.")
	}

	s.adjustScroll(height)

	var lines []string
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < height; i++ {
		r := s.rows[i]
		switch r.kind {
		case rowCategoryHeader:
			lines = append(lines, s.renderCategoryHeader(r.category, width))
		case rowNode:
			lines = append(lines, s.renderNodeRow(r, i == s.cursor, width))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *SkillMapScreen) Title() string {
	return "Skill Tree"
}

// KeyHints returns the key binding hints for the footer.
func (s *SkillMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Category"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

// moveCursor moves the cursor by delta, skipping category headers.
func (s *SkillMapScreen) moveCursor(delta int) {
	for next := s.cursor + delta; next >= 0 && next < len(s.rows); next += delta {
		if s.rows[next].kind == rowNode {
			s.cursor = next
			return
		}
	}
}

// jumpCategory moves the cursor to the first node of the next (dir > 0)
// or previous category.
func (s *SkillMapScreen) jumpCategory(dir int) {
	if len(s.rows) == 0 {
		return
	}
	current := s.rows[s.cursor].category
	var targets []int
	seen := map[skilltree.Category]bool{}
	for i, r := range s.rows {
		if r.kind == rowNode && !seen[r.category] {
			seen[r.category] = true
			targets = append(targets, i)
		}
	}
	for i, t := range targets {
		if s.rows[t].category != current {
			continue
		}
		j := i + dir
		if j >= 0 && j < len(targets) {
			s.cursor = targets[j]
		}
		return
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *SkillMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	// Keep the category header above the cursor visible when possible.
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowCategoryHeader {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *SkillMapScreen) selectNode() tea.Cmd {
	if len(s.rows) == 0 {
		return nil
	}
	r := s.rows[s.cursor]
	if r.kind != rowNode || r.node == nil {
		return nil
	}
	return router.Push(newNodeDetail(s.tracker, s.userID, r.node.ID))
}

func (s *SkillMapScreen) renderCategoryHeader(cat skilltree.Category, width int) string {
	return lipgloss.NewStyle().
		Foreground(theme.CategoryColor(string(cat))).
		Bold(true).
		Width(width).
		PaddingLeft(2).
		Render(strings.ToUpper(cat.DisplayName()))
}

func (s *SkillMapScreen) renderNodeRow(r row, selected bool, width int) string {
	n := r.node
	xp := fmt.Sprintf("%4d XP", n.XPReward)
	const statusWidth = 13
	nameWidth := max(width-4-2-2-len(xp)-statusWidth-4, 10)

	name := n.Title
	if n.InProgress {
		name += " (started)"
	}
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}

	nameStyle := components.StatusStyle(n.Status)
	cursor := "  "
	if selected {
		nameStyle = theme.Selected
		cursor = "▸ "
	}

	return fmt.Sprintf("  %s%s %s  %s  %s",
		cursor,
		components.StatusStyle(n.Status).Render(components.StatusIcon(n.Status)),
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		theme.Dim.Render(xp),
		components.StatusStyle(n.Status).Render(fmt.Sprintf("%*s", statusWidth, n.Status)),
	)
}
