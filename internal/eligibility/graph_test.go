package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/skilltree"
)

func TestClassifyEdge(t *testing.T) {
	p := progress.New()
	p.CompletedNodes = []string{"a"}
	p.AIRecommendedPath = []string{"b", "c"}

	tests := []struct {
		source, target string
		want           EdgeClass
	}{
		{"b", "c", EdgeRecommendedPath},
		{"a", "b", EdgeActive},
		{"x", "a", EdgeActive},
		{"b", "x", EdgeInactive},
		{"x", "y", EdgeInactive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyEdge(tt.source, tt.target, p), "%s-%s", tt.source, tt.target)
	}
}

func TestEdges_SkipsDanglingTargets(t *testing.T) {
	cat := skilltree.Seed()
	edges := Edges(cat, progress.New())

	ids := make(map[string]Edge, len(edges))
	for _, e := range edges {
		require.True(t, cat.Has(e.Source), "edge %s has unknown source", e.ID)
		require.True(t, cat.Has(e.Target), "edge %s has unknown target", e.ID)
		_, dup := ids[e.ID]
		require.False(t, dup, "duplicate edge %s", e.ID)
		ids[e.ID] = e
	}

	assert.Equal(t, skilltree.ConnectionSuggested, ids["foundation-basics-science-gateway"].Type)
	assert.NotContains(t, ids, "science-gateway-research-path")
	assert.Contains(t, ids, "data-scientist-ai-engineer")
}

func TestEdges_PrerequisiteLinks(t *testing.T) {
	cat := skilltree.MustCatalog([]skilltree.Node{
		{ID: "a", Difficulty: 1},
		{ID: "b", Difficulty: 1, Prerequisites: []string{"a"}},
	})
	p := progress.New()
	p.CompletedNodes = []string{"a"}

	edges := Edges(cat, p)
	require.Len(t, edges, 1)
	assert.Equal(t, Edge{ID: "a-b", Source: "a", Target: "b", Type: skilltree.ConnectionPrerequisite, Class: EdgeActive}, edges[0])
}

func TestEdges_DistinctPairsWithSameID(t *testing.T) {
	cat := skilltree.MustCatalog([]skilltree.Node{
		{ID: "a", Title: "A", Category: skilltree.CategoryFoundation, Difficulty: 1},
		{ID: "a-b", Title: "A B", Category: skilltree.CategoryFoundation, Difficulty: 1},
		{ID: "b-c", Title: "B C", Category: skilltree.CategoryFoundation, Difficulty: 1, Prerequisites: []string{"a"}},
		{ID: "c", Title: "C", Category: skilltree.CategoryFoundation, Difficulty: 1, Prerequisites: []string{"a-b"}},
	})

	edges := Edges(cat, progress.New())

	pairs := make([][2]string, 0, len(edges))
	for _, e := range edges {
		pairs = append(pairs, [2]string{e.Source, e.Target})
	}
	assert.ElementsMatch(t, [][2]string{{"a", "b-c"}, {"a-b", "c"}}, pairs)
}

func TestBuildGraph(t *testing.T) {
	cat := skilltree.Seed()
	p := progress.New()
	p.CompletedNodes = []string{"foundation-basics"}
	p.TotalXP = 100
	p.Level = 1
	p.AIRecommendedPath = []string{"science-gateway", "engineering-path"}

	g := BuildGraph(cat, p, nil)

	assert.Equal(t, 13, g.Stats.TotalNodes)
	assert.Equal(t, 1, g.Stats.Completed)
	assert.Equal(t, 2, g.Stats.Recommended)
	assert.Equal(t, 2, g.Stats.Available) // commerce and arts gateways
	assert.Equal(t, 8, g.Stats.Locked)
	assert.Equal(t, 900, g.Stats.XPToNextLevel)
	assert.Equal(t, len(g.Edges), g.Stats.TotalEdges)

	for _, n := range g.Nodes {
		if n.ID == "engineering-path" {
			assert.Equal(t, StatusRecommended, n.Status)
			assert.Equal(t, []string{"science-gateway"}, n.MissingPrerequisites)
		}
	}

	for _, e := range g.Edges {
		if e.ID == "science-gateway-engineering-path" {
			assert.Equal(t, EdgeRecommendedPath, e.Class)
		}
	}
}
