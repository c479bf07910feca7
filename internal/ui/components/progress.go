package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a value out of a total.
type ProgressBar struct {
	Label string
	Value int
	Total int
	Width int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, value, total, width int) ProgressBar {
	return ProgressBar{
		Label: label,
		Value: value,
		Total: total,
		Width: width,
	}
}

// Ratio returns Value/Total clamped to [0, 1]. A zero total is empty.
func (p ProgressBar) Ratio() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Value)/float64(p.Total), 0), 1)
}

// View renders the bar followed by "value/total".
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	counter := fmt.Sprintf("  %d/%d", p.Value, p.Total)
	barWidth := max(p.Width-lipgloss.Width(result)-len(counter), 4)

	filled := int(float64(barWidth) * p.Ratio())
	empty := barWidth - filled

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))
	result += theme.Dim.Render(counter)
	return result
}
