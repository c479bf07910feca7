package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/ui/layout"
	"github.com/abhisek/careertree/internal/ui/theme"
)

// SummaryScreen shows what a personalization run added to the tree.
type SummaryScreen struct {
	result *personalize.Result
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
)

// New creates a new SummaryScreen.
func New(result *personalize.Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Your Career Path"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, router.Home
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	if res == nil {
		return theme.Hint.Render("\n  Nothing was generated.")
	}
	contentWidth := min(width-8, 76)
	para := lipgloss.NewStyle().Width(contentWidth).Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(theme.Title.Render(res.Title))
	b.WriteString("\n")
	if res.Description != "" {
		b.WriteString(para.Render(res.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("%d added · %d updated · %d already completed",
		len(res.Added), len(res.Replaced), len(res.Kept))))
	b.WriteString("\n\n")

	if len(res.RecommendedPath) > 0 {
		b.WriteString(theme.Section.Render("Recommended path"))
		b.WriteString("\n")
		for i, id := range res.RecommendedPath {
			title := id
			if n, ok := res.Catalog.Node(id); ok {
				title = n.Title
			}
			b.WriteString(theme.Body.Render(fmt.Sprintf("%2d. %s", i+1, title)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(res.Recommendations) > 0 {
		b.WriteString(theme.Section.Render("Next steps"))
		b.WriteString("\n")
		for _, r := range res.Recommendations {
			b.WriteString(para.Render("• " + r))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(res.Warnings) > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d generated links were dropped.", len(res.Warnings))))
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 4).Render(b.String()))
}
