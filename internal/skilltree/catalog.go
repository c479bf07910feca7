package skilltree

import (
	"hash/fnv"
	"slices"
	"sort"
	"strconv"
)

// Catalog is an immutable node DAG with precomputed indices. A catalog is
// only ever replaced, never modified: Extend returns a new value.
type Catalog struct {
	nodes      []Node
	byID       map[string]int
	byCategory map[Category][]string
	roots      []string
	dependents map[string][]string
	topoOrder  []string
	topoIndex  map[string]int
	revision   uint64
}

// NewCatalog validates nodes and builds a catalog from them. The input
// slice is copied.
func NewCatalog(nodes []Node) (*Catalog, error) {
	if err := validateNodes(nodes); err != nil {
		return nil, err
	}
	return build(nodes), nil
}

// MustCatalog is like NewCatalog but panics on invalid input. It is meant
// for fixtures and the built-in seed.
func MustCatalog(nodes []Node) *Catalog {
	c, err := NewCatalog(nodes)
	if err != nil {
		panic(err)
	}
	return c
}

// build constructs all indices including topological order (Kahn's
// algorithm). nodes must already be valid.
func build(nodes []Node) *Catalog {
	c := &Catalog{
		nodes:      make([]Node, len(nodes)),
		byID:       make(map[string]int, len(nodes)),
		byCategory: make(map[Category][]string),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(nodes)),
	}

	for i, n := range nodes {
		c.nodes[i] = n.Clone()
		c.byID[n.ID] = i
	}

	for _, n := range c.nodes {
		for _, prereqID := range n.Prerequisites {
			c.dependents[prereqID] = append(c.dependents[prereqID], n.ID)
		}
		if n.IsRoot() {
			c.roots = append(c.roots, n.ID)
		}
	}

	inDegree := make(map[string]int, len(c.nodes))
	var queue []string
	for _, n := range c.nodes {
		inDegree[n.ID] = len(n.Prerequisites)
		if len(n.Prerequisites) == 0 {
			queue = append(queue, n.ID)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		c.topoIndex[id] = len(c.topoOrder)
		c.topoOrder = append(c.topoOrder, id)

		deps := slices.Clone(c.dependents[id])
		sort.Strings(deps)
		for _, depID := range deps {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	for _, id := range c.topoOrder {
		cat := c.nodes[c.byID[id]].Category
		c.byCategory[cat] = append(c.byCategory[cat], id)
	}

	c.revision = fingerprint(c.nodes)
	return c
}

// fingerprint hashes the eligibility-relevant content of every node.
func fingerprint(nodes []Node) uint64 {
	h := fnv.New64a()
	for _, n := range nodes {
		h.Write([]byte(n.ID))
		h.Write([]byte{0})
		for _, p := range n.Prerequisites {
			h.Write([]byte(p))
			h.Write([]byte{1})
		}
		h.Write([]byte(strconv.Itoa(n.XPReward)))
		h.Write([]byte{0})
		h.Write([]byte(n.Category))
		h.Write([]byte{2})
	}
	return h.Sum64()
}

// Len returns the number of nodes.
func (c *Catalog) Len() int { return len(c.nodes) }

// Revision identifies the catalog content. Two catalogs with the same
// nodes, prerequisites and rewards share a revision.
func (c *Catalog) Revision() uint64 { return c.revision }

// Nodes returns all nodes in insertion order.
func (c *Catalog) Nodes() []Node {
	return slices.Clone(c.nodes)
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Node returns the node with the given id.
func (c *Catalog) Node(id string) (Node, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Node{}, false
	}
	return c.nodes[i], true
}

// Lookup is like Node but returns *ErrNodeNotFound for unknown ids.
func (c *Catalog) Lookup(id string) (Node, error) {
	n, ok := c.Node(id)
	if !ok {
		return Node{}, &ErrNodeNotFound{ID: id}
	}
	return n, nil
}

// Prerequisites returns the direct prerequisite nodes of id.
func (c *Catalog) Prerequisites(id string) []Node {
	n, ok := c.Node(id)
	if !ok {
		return nil
	}
	result := make([]Node, 0, len(n.Prerequisites))
	for _, prereqID := range n.Prerequisites {
		if p, ok := c.Node(prereqID); ok {
			result = append(result, p)
		}
	}
	return result
}

// Dependents returns nodes that directly require id.
func (c *Catalog) Dependents(id string) []Node {
	return c.collect(c.dependents[id])
}

// Ancestors returns every node id reaches through prerequisites,
// transitively, in topological order. id itself is excluded.
func (c *Catalog) Ancestors(id string) []Node {
	if !c.Has(id) {
		return nil
	}
	seen := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, prereqID := range c.nodes[c.byID[cur]].Prerequisites {
			if !seen[prereqID] {
				seen[prereqID] = true
				stack = append(stack, prereqID)
			}
		}
	}
	var ids []string
	for _, tid := range c.topoOrder {
		if seen[tid] {
			ids = append(ids, tid)
		}
	}
	return c.collect(ids)
}

// Roots returns all nodes without prerequisites.
func (c *Catalog) Roots() []Node {
	return c.collect(c.roots)
}

// TopologicalOrder returns all nodes such that every node follows its
// prerequisites.
func (c *Catalog) TopologicalOrder() []Node {
	return c.collect(c.topoOrder)
}

// ByCategory returns the nodes of a category in topological order.
func (c *Catalog) ByCategory(cat Category) []Node {
	return c.collect(c.byCategory[cat])
}

// Categories returns the categories that have at least one node, in
// display order.
func (c *Catalog) Categories() []Category {
	var result []Category
	for _, cat := range AllCategories() {
		if len(c.byCategory[cat]) > 0 {
			result = append(result, cat)
		}
	}
	return result
}

// Extend returns a new catalog where nodes with an existing id replace the
// old entry in place and the rest are appended. The result is validated
// as a whole; c is left untouched.
func (c *Catalog) Extend(nodes []Node) (*Catalog, error) {
	merged := slices.Clone(c.nodes)
	for _, n := range nodes {
		if i, ok := c.byID[n.ID]; ok {
			merged[i] = n
			continue
		}
		merged = append(merged, n)
	}
	return NewCatalog(merged)
}

func (c *Catalog) collect(ids []string) []Node {
	result := make([]Node, 0, len(ids))
	for _, id := range ids {
		result = append(result, c.nodes[c.byID[id]])
	}
	return result
}
