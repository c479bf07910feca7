package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestLevelBadge(t *testing.T) {
	badge := levelBadge(HeaderStats{Level: 2, TotalXP: 1250, LevelXP: 250, LevelWidth: 1000})
	assert.Contains(t, badge, "Lv 2")
	assert.Contains(t, badge, "1250 XP")
	assert.Equal(t, 2, strings.Count(badge, "▰"))
	assert.Equal(t, 8, strings.Count(badge, "▱"))

	assert.NotContains(t, levelBadge(HeaderStats{Level: 1}), "▱", "no meter without a level width")
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Skill Tree", HeaderStats{User: "alice", Level: 1}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)

	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.Contains(t, header, "alice")
	assert.Contains(t, footer, "Back")
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 24))
	assert.True(t, IsTooSmall(80, 23))
	assert.False(t, IsTooSmall(80, 24))
	assert.Contains(t, RenderMinSizeMessage(60, 20), "80x24")
}
