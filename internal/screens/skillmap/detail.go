package skillmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/components"
	"github.com/abhisek/careertree/internal/ui/layout"
	"github.com/abhisek/careertree/internal/ui/theme"
)

type nodeLoadedMsg struct {
	catalog *skilltree.Catalog
	prog    progress.Progress
	err     error
}

type actionDoneMsg struct {
	notice string
	prog   progress.Progress
	err    error
}

// NodeDetailScreen shows one node and lets the user start or complete it.
type NodeDetailScreen struct {
	tracker *tracker.Tracker
	userID  string
	nodeID  string

	node    skilltree.Node
	catalog *skilltree.Catalog
	prog    progress.Progress
	loaded  bool
	busy    bool
	notice  string
	err     error
}

var (
	_ screen.Screen          = (*NodeDetailScreen)(nil)
	_ screen.KeyHintProvider = (*NodeDetailScreen)(nil)
)

func newNodeDetail(t *tracker.Tracker, userID, nodeID string) *NodeDetailScreen {
	return &NodeDetailScreen{tracker: t, userID: userID, nodeID: nodeID}
}

func (d *NodeDetailScreen) Init() tea.Cmd { return d.load }

func (d *NodeDetailScreen) Title() string {
	if d.loaded && d.err == nil {
		return d.node.Title
	}
	return d.nodeID
}

func (d *NodeDetailScreen) load() tea.Msg {
	c, p, err := d.tracker.State(context.Background(), d.userID)
	return nodeLoadedMsg{catalog: c, prog: p, err: err}
}

func (d *NodeDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "c", Description: "Complete"},
		{Key: "s", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *NodeDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case nodeLoadedMsg:
		d.loaded = true
		if msg.err != nil {
			d.err = msg.err
			return d, nil
		}
		n, err := msg.catalog.Lookup(d.nodeID)
		if err != nil {
			d.err = err
			return d, nil
		}
		d.node, d.catalog, d.prog = n, msg.catalog, msg.prog
	case actionDoneMsg:
		d.busy = false
		d.err = msg.err
		d.notice = msg.notice
		if msg.err == nil {
			d.prog = msg.prog
			return d, screen.ProgressChanged
		}
	case tea.KeyMsg:
		if d.busy || !d.loaded {
			return d, nil
		}
		switch msg.String() {
		case "c":
			d.busy = true
			return d, d.complete
		case "s":
			d.busy = true
			return d, d.start
		}
	}
	return d, nil
}

func (d *NodeDetailScreen) complete() tea.Msg {
	out, p, err := d.tracker.Complete(context.Background(), d.userID, d.nodeID)
	if err != nil {
		return actionDoneMsg{err: err}
	}
	if out.AlreadyCompleted {
		return actionDoneMsg{notice: "Already completed.", prog: p}
	}
	notice := fmt.Sprintf("Completed! +%d XP", out.XPAwarded)
	if out.LeveledUp() {
		notice += fmt.Sprintf("  Level up: %d → %d", out.LevelBefore, out.LevelAfter)
	}
	for _, a := range out.Achievements {
		notice += "\nAchievement unlocked: " + a.Title
	}
	return actionDoneMsg{notice: notice, prog: p}
}

func (d *NodeDetailScreen) start() tea.Msg {
	changed, p, err := d.tracker.Start(context.Background(), d.userID, d.nodeID)
	if err != nil {
		return actionDoneMsg{err: err}
	}
	if !changed {
		return actionDoneMsg{notice: "Nothing to start.", prog: p}
	}
	return actionDoneMsg{notice: "Marked as started.", prog: p}
}

func (d *NodeDetailScreen) View(width, height int) string {
	if !d.loaded {
		return theme.Dim.Render("\n  Loading...")
	}
	if d.catalog == nil {
		return theme.ErrorText.Render("\n  " + d.err.Error())
	}

	n := d.node
	status := eligibility.ResolveStatus(n, d.prog)
	contentWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("  %s  %s", components.StatusIcon(status), n.Title)))
	b.WriteString("\n  ")
	b.WriteString(components.StatusLabel(status))
	if d.prog.IsInProgress(n.ID) {
		b.WriteString(theme.Dim.Render("  (started)"))
	}
	b.WriteString("\n\n")

	if n.Description != "" {
		b.WriteString(lipgloss.NewStyle().Width(contentWidth).PaddingLeft(2).Foreground(theme.Text).Render(n.Description))
		b.WriteString("\n\n")
	}

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(theme.Dim.Render(fmt.Sprintf("  %-11s", label)) + theme.Body.Render(value) + "\n")
	}
	field("Category:", n.Category.DisplayName())
	field("Type:", string(n.Type))
	field("Difficulty:", fmt.Sprintf("%d/5", n.Difficulty))
	field("Time:", n.EstimatedTime)
	field("Reward:", fmt.Sprintf("%d XP", n.XPReward))
	b.WriteString("\n")

	if prereqs := d.catalog.Prerequisites(n.ID); len(prereqs) > 0 {
		b.WriteString(theme.Section.Render("  Prerequisites") + "\n")
		for _, p := range prereqs {
			st := eligibility.ResolveStatus(p, d.prog)
			b.WriteString(components.StatusStyle(st).Render(fmt.Sprintf("  %s %s", components.StatusIcon(st), p.Title)) + "\n")
		}
		b.WriteString("\n")
	}

	if deps := d.catalog.Dependents(n.ID); len(deps) > 0 {
		b.WriteString(theme.Section.Render("  Unlocks") + "\n")
		for _, dep := range deps {
			b.WriteString(theme.Dim.Render("  → "+dep.Title) + "\n")
		}
		b.WriteString("\n")
	}

	if len(n.Requirements) > 0 {
		b.WriteString(theme.Section.Render("  Checklist") + "\n")
		for _, r := range n.Requirements {
			b.WriteString(theme.Dim.Render("  • "+r.Description) + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case d.busy:
		b.WriteString(theme.Dim.Render("  Saving..."))
	case d.err != nil:
		b.WriteString(theme.ErrorText.Render("  " + describeError(d.err)))
	case d.notice != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).PaddingLeft(2).Render(d.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "\n"+b.String())
}

func describeError(err error) string {
	var ineligible *tracker.ErrIneligibleNode
	if errors.As(err, &ineligible) {
		return "Locked. Complete first: " + strings.Join(ineligible.Missing, ", ")
	}
	return err.Error()
}
