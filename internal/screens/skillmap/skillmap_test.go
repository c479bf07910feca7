package skillmap

import (
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
	"github.com/abhisek/careertree/internal/tracker"
)

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "skillmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return tracker.New(tracker.Config{Progress: st.ProgressRepo(), Catalogs: st.CatalogRepo()})
}

func loadedScreen(t *testing.T, tr *tracker.Tracker) *SkillMapScreen {
	t.Helper()
	s := New(tr, "alice")
	s.Update(s.Init()())
	require.True(t, s.loaded)
	require.NoError(t, s.err)
	return s
}

func TestSkillMap_Rows(t *testing.T) {
	s := loadedScreen(t, newTestTracker(t))

	var headers, nodes int
	for _, r := range s.rows {
		if r.kind == rowCategoryHeader {
			headers++
		} else {
			nodes++
		}
	}
	assert.Equal(t, 13, nodes)
	assert.Equal(t, len(s.graph.Nodes), nodes)
	assert.Greater(t, headers, 1)

	// The cursor starts on the first node, never on a header.
	assert.Equal(t, rowNode, s.rows[s.cursor].kind)
}

func TestSkillMap_Navigation(t *testing.T) {
	s := loadedScreen(t, newTestTracker(t))
	start := s.cursor

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, start, s.cursor)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.NotEqual(t, s.rows[start].category, s.rows[s.cursor].category)
	assert.Equal(t, rowNode, s.rows[s.cursor].kind)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, start, s.cursor)
}

func TestSkillMap_SelectPushesDetail(t *testing.T) {
	s := loadedScreen(t, newTestTracker(t))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*NodeDetailScreen)
	assert.True(t, ok)
}

func TestSkillMap_RefreshKeepsCursor(t *testing.T) {
	tr := newTestTracker(t)
	s := loadedScreen(t, tr)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	id := s.rows[s.cursor].node.ID

	s.Update(s.Refresh()())
	assert.Equal(t, id, s.rows[s.cursor].node.ID)
}

func TestNodeDetail_Complete(t *testing.T) {
	tr := newTestTracker(t)
	d := newNodeDetail(tr, "alice", "foundation-basics")
	d.Update(d.Init()())
	assert.Equal(t, "Basic Education", d.Title())

	_, cmd := d.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	require.NotNil(t, cmd)
	assert.True(t, d.busy)

	_, cmd = d.Update(cmd())
	require.NotNil(t, cmd)
	assert.IsType(t, screen.ProgressChangedMsg{}, cmd())
	assert.Contains(t, d.notice, "+100 XP")
	assert.Equal(t, eligibility.StatusCompleted, eligibility.ResolveStatus(d.node, d.prog))
}

func TestNodeDetail_LockedShowsMissing(t *testing.T) {
	tr := newTestTracker(t)
	d := newNodeDetail(tr, "alice", "cs-engineering")
	d.Update(d.Init()())

	_, cmd := d.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	d.Update(cmd())

	var ineligible *tracker.ErrIneligibleNode
	require.ErrorAs(t, d.err, &ineligible)
	assert.Contains(t, d.View(100, 40), "engineering-path")
}

func TestNodeDetail_UnknownNode(t *testing.T) {
	d := newNodeDetail(newTestTracker(t), "alice", "astronaut")
	d.Update(d.Init()())

	var notFound *skilltree.ErrNodeNotFound
	require.ErrorAs(t, d.err, &notFound)
	assert.Contains(t, d.View(80, 24), "astronaut")
}
