// Package theme holds the TUI palette and the text styles screens share.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#10B981") // emerald
	Secondary = lipgloss.Color("#38BDF8") // sky
	Accent    = lipgloss.Color("#FBBF24") // amber, XP and recommendations
	Success   = lipgloss.Color("#4ADE80")
	Error     = lipgloss.Color("#F87171")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#8B95A7")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

// Stream colors for category headers on the skill tree. Streams not
// listed use Secondary.
var categoryColors = map[string]color.Color{
	"foundation":        lipgloss.Color("#A78BFA"),
	"science":           lipgloss.Color("#38BDF8"),
	"commerce":          lipgloss.Color("#F59E0B"),
	"arts":              lipgloss.Color("#F472B6"),
	"interdisciplinary": lipgloss.Color("#2DD4BF"),
}

func CategoryColor(category string) color.Color {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return Secondary
}

var (
	Title      = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Section    = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Body       = lipgloss.NewStyle().Foreground(Text)
	Dim        = lipgloss.NewStyle().Foreground(TextDim)
	Hint       = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	ErrorText  = lipgloss.NewStyle().Bold(true).Foreground(Error)
	Selected   = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Unselected = lipgloss.NewStyle().Foreground(Text)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)
