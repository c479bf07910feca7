package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/ui/theme"
)

// StatusIcon returns the glyph drawn next to a node.
func StatusIcon(s eligibility.Status) string {
	switch s {
	case eligibility.StatusCompleted:
		return "●"
	case eligibility.StatusRecommended:
		return "★"
	case eligibility.StatusAvailable:
		return "◐"
	default:
		return "○"
	}
}

// StatusStyle returns the foreground style for a node in status s.
func StatusStyle(s eligibility.Status) lipgloss.Style {
	switch s {
	case eligibility.StatusCompleted:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case eligibility.StatusRecommended:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	case eligibility.StatusAvailable:
		return lipgloss.NewStyle().Foreground(theme.Secondary)
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	}
}

// StatusLabel renders icon and status name in the status color.
func StatusLabel(s eligibility.Status) string {
	return StatusStyle(s).Render(StatusIcon(s) + " " + string(s))
}
