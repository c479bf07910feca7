// Package layout draws the frame around every screen: a header with the
// user's level and XP, the screen body, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	meterCells = 10
)

type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats is what the header shows about the current user.
type HeaderStats struct {
	User       string
	Level      int
	TotalXP    int
	LevelXP    int // progress inside the current level
	LevelWidth int // XP per level; zero hides the meter
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Career Tree needs a %dx%d terminal.\nThis one is %dx%d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

func RenderHeader(title string, stats HeaderStats, width int) string {
	brand := theme.Title.Render("  Career Tree")
	center := theme.Body.Render(title)
	right := theme.Dim.Render(stats.User) + "  " + levelBadge(stats)

	inner := max(width-4, 0)
	used := lipgloss.Width(brand) + lipgloss.Width(center) + lipgloss.Width(right)
	gapL := max((inner-lipgloss.Width(center))/2-lipgloss.Width(brand), 1)
	gapR := max(inner-used-gapL, 1)

	return bar.Width(width).Render(brand + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right)
}

// levelBadge renders "Lv 2 ▰▰▰▱▱▱▱▱▱▱ 1250 XP".
func levelBadge(s HeaderStats) string {
	xp := lipgloss.NewStyle().Foreground(theme.Accent)
	out := xp.Render(fmt.Sprintf("Lv %d", s.Level))
	if s.LevelWidth > 0 {
		filled := min(s.LevelXP*meterCells/s.LevelWidth, meterCells)
		out += " " + xp.Render(strings.Repeat("▰", filled)) + theme.Dim.Render(strings.Repeat("▱", meterCells-filled))
	}
	return out + " " + xp.Render(fmt.Sprintf("%d XP", s.TotalXP))
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + theme.Dim.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, padding the body so the
// footer sits on the last line.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
