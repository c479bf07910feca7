package eligibility

import (
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/skilltree"
)

// EdgeClass is the visual class of an edge.
type EdgeClass string

const (
	EdgeRecommendedPath EdgeClass = "recommended-path"
	EdgeActive          EdgeClass = "active"
	EdgeInactive        EdgeClass = "inactive"
)

// Edge is a derived, never persisted, link between two catalog nodes.
type Edge struct {
	ID     string                   `json:"id"`
	Source string                   `json:"source"`
	Target string                   `json:"target"`
	Type   skilltree.ConnectionType `json:"type"`
	Class  EdgeClass                `json:"class"`
	Weight float64                  `json:"weight,omitempty"`
}

// ClassifyEdge returns the class of the edge source→target.
func ClassifyEdge(source, target string, p progress.Progress) EdgeClass {
	switch {
	case p.IsRecommended(source) && p.IsRecommended(target):
		return EdgeRecommendedPath
	case p.IsCompleted(source) || p.IsCompleted(target):
		return EdgeActive
	default:
		return EdgeInactive
	}
}

// Edges returns the edges of catalog for p: one per connection whose
// target exists, then one per prerequisite link (prerequisite→dependent)
// not already covered by a connection. Edge ids are "source-target".
func Edges(catalog *skilltree.Catalog, p progress.Progress) []Edge {
	type link struct{ src, dst string }
	var edges []Edge
	seen := make(map[link]bool)
	add := func(e Edge) {
		// Ids can collide across kebab-case names, so dedupe on the pair.
		key := link{e.Source, e.Target}
		if seen[key] {
			return
		}
		seen[key] = true
		e.Class = ClassifyEdge(e.Source, e.Target, p)
		edges = append(edges, e)
	}

	nodes := catalog.Nodes()
	for _, n := range nodes {
		for _, conn := range n.Connections {
			if !catalog.Has(conn.TargetID) {
				continue
			}
			add(Edge{
				ID:     n.ID + "-" + conn.TargetID,
				Source: n.ID,
				Target: conn.TargetID,
				Type:   conn.Type,
				Weight: conn.Weight,
			})
		}
	}
	for _, n := range nodes {
		for _, prereqID := range n.Prerequisites {
			add(Edge{
				ID:     prereqID + "-" + n.ID,
				Source: prereqID,
				Target: n.ID,
				Type:   skilltree.ConnectionPrerequisite,
			})
		}
	}
	return edges
}

// GraphNode is a catalog node annotated for presentation.
type GraphNode struct {
	skilltree.Node
	Status               Status   `json:"status"`
	MissingPrerequisites []string `json:"missingPrerequisites,omitempty"`
	InProgress           bool     `json:"inProgress,omitempty"`
}

// GraphStats summarizes a graph.
type GraphStats struct {
	TotalNodes     int `json:"totalNodes"`
	Completed      int `json:"completed"`
	Recommended    int `json:"recommended"`
	Available      int `json:"available"`
	Locked         int `json:"locked"`
	TotalEdges     int `json:"totalEdges"`
	TotalXP        int `json:"totalXP"`
	Level          int `json:"level"`
	XPToNextLevel  int `json:"xpToNextLevel"`
	EarnableXP     int `json:"earnableXP"`
	CompletionRate int `json:"completionRate"` // percent
}

// Graph is the presentation handoff: annotated nodes, classified edges
// and summary stats.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []Edge      `json:"edges"`
	Stats GraphStats  `json:"stats"`
}

// BuildGraph annotates every node of catalog with its status in snap and
// classifies every edge. snap must have been resolved from catalog and p.
func BuildGraph(catalog *skilltree.Catalog, p progress.Progress, snap *Snapshot) Graph {
	if snap == nil {
		snap = Resolve(catalog, p)
	}
	nodes := catalog.Nodes()
	g := Graph{
		Nodes: make([]GraphNode, 0, len(nodes)),
		Edges: Edges(catalog, p),
	}
	for _, n := range nodes {
		st, _ := snap.Status(n.ID)
		gn := GraphNode{Node: n, Status: st, InProgress: p.IsInProgress(n.ID)}
		if st != StatusCompleted {
			gn.MissingPrerequisites = MissingPrerequisites(n, p)
			g.Stats.EarnableXP += n.XPReward
		}
		g.Nodes = append(g.Nodes, gn)
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}

	g.Stats.TotalNodes = len(nodes)
	g.Stats.Completed = snap.Count(StatusCompleted)
	g.Stats.Recommended = snap.Count(StatusRecommended)
	g.Stats.Available = snap.Count(StatusAvailable)
	g.Stats.Locked = snap.Count(StatusLocked)
	g.Stats.TotalEdges = len(g.Edges)
	g.Stats.TotalXP = p.TotalXP
	g.Stats.Level = progress.LevelFor(p.TotalXP)
	g.Stats.XPToNextLevel = p.XPToNextLevel()
	if len(nodes) > 0 {
		g.Stats.CompletionRate = g.Stats.Completed * 100 / len(nodes)
	}
	return g
}
