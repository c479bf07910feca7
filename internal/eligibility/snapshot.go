package eligibility

import (
	"hash/fnv"
	"maps"
	"sync"

	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/skilltree"
)

// Snapshot holds the status of every catalog node for one progress value.
type Snapshot struct {
	statuses map[string]Status
	order    []string
	counts   map[Status]int

	revision    uint64
	fingerprint uint64
}

// Resolve computes the status of every node in catalog in one pass.
func Resolve(catalog *skilltree.Catalog, p progress.Progress) *Snapshot {
	completed := toSet(p.CompletedNodes)
	recommended := toSet(p.AIRecommendedPath)

	nodes := catalog.Nodes()
	s := &Snapshot{
		statuses:    make(map[string]Status, len(nodes)),
		order:       make([]string, 0, len(nodes)),
		counts:      make(map[Status]int, 4),
		revision:    catalog.Revision(),
		fingerprint: Fingerprint(p),
	}
	for _, n := range nodes {
		st := resolveIndexed(n, completed, recommended)
		s.statuses[n.ID] = st
		s.order = append(s.order, n.ID)
		s.counts[st]++
	}
	return s
}

// resolveIndexed mirrors ResolveStatus with precomputed membership sets.
func resolveIndexed(n skilltree.Node, completed, recommended map[string]bool) Status {
	switch {
	case completed[n.ID]:
		return StatusCompleted
	case recommended[n.ID]:
		return StatusRecommended
	}
	for _, prereqID := range n.Prerequisites {
		if !completed[prereqID] {
			return StatusLocked
		}
	}
	return StatusAvailable
}

// Status returns the status of id.
func (s *Snapshot) Status(id string) (Status, bool) {
	st, ok := s.statuses[id]
	return st, ok
}

// Map returns a copy of the id to status mapping.
func (s *Snapshot) Map() map[string]Status {
	return maps.Clone(s.statuses)
}

// ByStatus returns the ids with status st, in catalog order.
func (s *Snapshot) ByStatus(st Status) []string {
	var ids []string
	for _, id := range s.order {
		if s.statuses[id] == st {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count returns how many nodes have status st.
func (s *Snapshot) Count(st Status) int {
	return s.counts[st]
}

// Counts returns the number of nodes per status. Every status is present.
func (s *Snapshot) Counts() map[Status]int {
	out := make(map[Status]int, len(AllStatuses()))
	for _, st := range AllStatuses() {
		out[st] = s.counts[st]
	}
	return out
}

// Len returns the number of resolved nodes.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Fingerprint hashes the parts of p that statuses depend on.
func Fingerprint(p progress.Progress) uint64 {
	h := fnv.New64a()
	for _, id := range p.CompletedNodes {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, id := range p.AIRecommendedPath {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Cache memoizes one Snapshot per key (typically a user id). An entry is
// reused only while both the catalog revision and the progress
// fingerprint are unchanged.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Snapshot
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Snapshot)}
}

// Get returns the snapshot for key, resolving it again if the catalog or
// progress changed since it was cached.
func (c *Cache) Get(key string, catalog *skilltree.Catalog, p progress.Progress) *Snapshot {
	fp := Fingerprint(p)

	c.mu.Lock()
	s, ok := c.entries[key]
	c.mu.Unlock()
	if ok && s.revision == catalog.Revision() && s.fingerprint == fp {
		return s
	}

	s = Resolve(catalog, p)
	c.mu.Lock()
	c.entries[key] = s
	c.mu.Unlock()
	return s
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
