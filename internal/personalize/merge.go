package personalize

import (
	"fmt"
	"slices"

	"github.com/abhisek/careertree/internal/skilltree"
)

// ErrMergeConflict is returned when a generated node reuses an id that
// already names different content.
type ErrMergeConflict struct {
	NodeID string
	Reason string
}

func (e *ErrMergeConflict) Error() string {
	return fmt.Sprintf("merge conflict on node %q: %s", e.NodeID, e.Reason)
}

// Result is the outcome of a successful merge.
type Result struct {
	// Catalog is the input catalog extended with the delta.
	Catalog *skilltree.Catalog

	// Delta holds the added and replaced nodes as they now appear in
	// Catalog, in candidate order.
	Delta []skilltree.Node

	Added    []string
	Replaced []string
	// Kept lists completed nodes the candidate also proposed. They stay
	// exactly as they were.
	Kept []string

	// RecommendedPath is every surviving candidate id in candidate order.
	RecommendedPath []string

	// Warnings describes everything that was dropped or repaired.
	Warnings []string

	Title           string
	Description     string
	Recommendations []string
}

// Merge validates candidate against catalog and folds it in. completed
// lists the ids the user has completed; those nodes are never changed.
//
// Ids are normalized first. Empty ids are dropped. A candidate id that
// collides with another candidate node or a catalog node must carry the
// same title and category, otherwise the merge fails with
// *ErrMergeConflict. Prerequisites that resolve to nothing and
// prerequisite edges that would close a cycle are dropped. Every drop is
// reported in Result.Warnings. catalog itself is not modified.
func Merge(catalog *skilltree.Catalog, completed []string, candidate Candidate) (*Result, error) {
	res := &Result{
		Title:           candidate.Title,
		Description:     candidate.Description,
		Recommendations: slices.Clone(candidate.Recommendations),
	}
	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	isCompleted := make(map[string]bool, len(completed))
	for _, id := range completed {
		isCompleted[id] = true
	}

	// Normalize ids and fold duplicates inside the candidate.
	type entry struct {
		id  string
		src CandidateNode
	}
	var entries []entry
	byID := make(map[string]CandidateNode)
	for _, cn := range candidate.Nodes {
		id := NormalizeID(cn.ID)
		if id == "" {
			warn("dropped node %q: empty id", cn.Title)
			continue
		}
		if prev, dup := byID[id]; dup {
			if !compatible(prev.Title, catalogCategory(prev.Category), cn.Title, catalogCategory(cn.Category)) {
				return nil, &ErrMergeConflict{NodeID: id, Reason: "generated twice with different content"}
			}
			warn("dropped duplicate node %q", id)
			continue
		}
		byID[id] = cn
		entries = append(entries, entry{id: id, src: cn})
	}

	// Check catalog collisions before touching any edge.
	kept := make(map[string]bool)
	for _, e := range entries {
		existing, ok := catalog.Node(e.id)
		if !ok {
			continue
		}
		if !compatible(existing.Title, existing.Category, e.src.Title, catalogCategory(e.src.Category)) {
			return nil, &ErrMergeConflict{
				NodeID: e.id,
				Reason: fmt.Sprintf("catalog node %q has different content", existing.Title),
			}
		}
		if isCompleted[e.id] {
			kept[e.id] = true
		}
	}

	// deps is the prerequisite relation being built. Kept and untouched
	// catalog nodes keep their edges; candidate nodes start empty and gain
	// edges one at a time so that no accepted edge closes a cycle.
	deps := make(map[string][]string, catalog.Len()+len(entries))
	for _, n := range catalog.Nodes() {
		deps[n.ID] = slices.Clone(n.Prerequisites)
	}
	for _, e := range entries {
		if !kept[e.id] {
			deps[e.id] = nil
		}
	}

	for _, e := range entries {
		if kept[e.id] {
			continue
		}
		seen := make(map[string]bool)
		for _, raw := range e.src.Prerequisites {
			p := NormalizeID(raw)
			switch {
			case p == "" || seen[p]:
				continue
			case p == e.id:
				warn("dropped self-prerequisite of %q", e.id)
				continue
			}
			seen[p] = true
			if _, ok := deps[p]; !ok {
				warn("dropped dangling prerequisite %q of %q", p, e.id)
				continue
			}
			if reaches(deps, p, e.id) {
				warn("dropped prerequisite %q of %q: it would close a cycle", p, e.id)
				continue
			}
			deps[e.id] = append(deps[e.id], p)
		}
	}

	srcs := make([]CandidateNode, len(entries))
	for i, e := range entries {
		srcs[i] = e.src
	}
	positions := layout(srcs)
	var delta []skilltree.Node
	for i, e := range entries {
		res.RecommendedPath = append(res.RecommendedPath, e.id)
		switch {
		case kept[e.id]:
			res.Kept = append(res.Kept, e.id)
			continue
		case catalog.Has(e.id):
			res.Replaced = append(res.Replaced, e.id)
		default:
			res.Added = append(res.Added, e.id)
		}
		delta = append(delta, toNode(e.src, e.id, deps[e.id], positions[i]))
	}

	merged, err := catalog.Extend(delta)
	if err != nil {
		return nil, fmt.Errorf("extend catalog: %w", err)
	}
	res.Catalog = merged
	for _, n := range delta {
		stored, _ := merged.Node(n.ID)
		res.Delta = append(res.Delta, stored)
	}
	return res, nil
}

// compatible reports whether two nodes describe the same thing.
func compatible(titleA string, catA skilltree.Category, titleB string, catB skilltree.Category) bool {
	return normalizeTitle(titleA) == normalizeTitle(titleB) && catA == catB
}

// reaches reports whether to is reachable from from along prerequisite
// edges, i.e. whether from (transitively) requires to.
func reaches(deps map[string][]string, from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range deps[cur] {
			if p == to {
				return true
			}
			if !visited[p] {
				visited[p] = true
				stack = append(stack, p)
			}
		}
	}
	return false
}

