package skilltree

import (
	"fmt"
	"strings"
)

// ValidationError lists every structural problem found in a node set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog validation failed:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Validate checks a node set without building a catalog.
func Validate(nodes []Node) error {
	return validateNodes(nodes)
}

// validateNodes performs all structural checks on the given node set.
// Returns a *ValidationError describing all problems found, or nil.
func validateNodes(nodes []Node) error {
	var errs []string

	idSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Sprintf("node %q has an empty id", n.Title))
			continue
		}
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id: %q", n.ID))
		}
		idSet[n.ID] = true
	}

	for _, n := range nodes {
		seen := make(map[string]bool, len(n.Prerequisites))
		for _, prereqID := range n.Prerequisites {
			switch {
			case prereqID == n.ID:
				errs = append(errs, fmt.Sprintf("node %q lists itself as a prerequisite", n.ID))
			case !idSet[prereqID]:
				errs = append(errs, fmt.Sprintf("node %q references nonexistent prerequisite %q", n.ID, prereqID))
			case seen[prereqID]:
				errs = append(errs, fmt.Sprintf("node %q lists prerequisite %q twice", n.ID, prereqID))
			}
			seen[prereqID] = true
		}

		if n.Difficulty < 1 || n.Difficulty > 5 {
			errs = append(errs, fmt.Sprintf("node %q: difficulty must be in [1, 5], got %d", n.ID, n.Difficulty))
		}
		if n.XPReward < 0 {
			errs = append(errs, fmt.Sprintf("node %q: xpReward must be >= 0, got %d", n.ID, n.XPReward))
		}
		if n.Category != "" && !n.Category.Valid() {
			errs = append(errs, fmt.Sprintf("node %q: unknown category %q", n.ID, n.Category))
		}
		if n.Type != "" && !n.Type.Valid() {
			errs = append(errs, fmt.Sprintf("node %q: unknown type %q", n.ID, n.Type))
		}
		for _, conn := range n.Connections {
			if !conn.Type.Valid() {
				errs = append(errs, fmt.Sprintf("node %q: connection to %q has unknown type %q", n.ID, conn.TargetID, conn.Type))
			}
		}
	}

	// Cycle check (Kahn's algorithm). Dangling and self references are
	// already reported, so only edges between known nodes count here.
	inDegree := make(map[string]int, len(nodes))
	adjList := make(map[string][]string)
	for _, n := range nodes {
		if _, ok := inDegree[n.ID]; !ok {
			inDegree[n.ID] = 0
		}
		for _, prereqID := range n.Prerequisites {
			if !idSet[prereqID] || prereqID == n.ID {
				continue
			}
			inDegree[n.ID]++
			adjList[prereqID] = append(adjList[prereqID], n.ID)
		}
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
			inDegree[n.ID] = -1
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
				inDegree[depID] = -1
			}
		}
	}

	if visited < len(inDegree) {
		var cycleNodes []string
		for _, n := range nodes {
			if inDegree[n.ID] > 0 {
				cycleNodes = append(cycleNodes, n.ID)
				inDegree[n.ID] = -1
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(nodes) > 0 {
		hasRoot := false
		for _, n := range nodes {
			if n.IsRoot() {
				hasRoot = true
				break
			}
		}
		if !hasRoot {
			errs = append(errs, "no root nodes found (at least one node must have no prerequisites)")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}
