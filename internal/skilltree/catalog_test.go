package skilltree

import (
	"errors"
	"testing"
)

func TestSeed_Validates(t *testing.T) {
	if err := Validate(Seed().Nodes()); err != nil {
		t.Fatalf("seed catalog validation failed: %v", err)
	}
	if got := Seed().Len(); got != 13 {
		t.Errorf("seed has %d nodes, want 13", got)
	}
}

func TestSeed_SingleFoundationRoot(t *testing.T) {
	roots := Seed().Roots()
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if roots[0].ID != "foundation-basics" {
		t.Errorf("root = %q, want foundation-basics", roots[0].ID)
	}
	if roots[0].Category != CategoryFoundation {
		t.Errorf("root category = %q, want foundation", roots[0].Category)
	}
}

func TestLookup(t *testing.T) {
	n, err := Seed().Lookup("cs-engineering")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.XPReward != 500 {
		t.Errorf("xpReward = %d, want 500", n.XPReward)
	}
	if n.Type != TypeDegree {
		t.Errorf("type = %q, want degree", n.Type)
	}

	_, err = Seed().Lookup("ghost-node")
	var nf *ErrNodeNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected *ErrNodeNotFound, got %v", err)
	}
	if nf.ID != "ghost-node" {
		t.Errorf("ErrNodeNotFound.ID = %q", nf.ID)
	}
}

func TestPrerequisitesAndDependents(t *testing.T) {
	c := Seed()

	prereqs := c.Prerequisites("ai-engineer")
	if len(prereqs) != 2 {
		t.Fatalf("ai-engineer has %d prerequisites, want 2", len(prereqs))
	}

	deps := c.Dependents("cs-engineering")
	want := map[string]bool{"software-developer": true, "ai-engineer": true, "data-scientist": true}
	if len(deps) != len(want) {
		t.Fatalf("cs-engineering has %d dependents, want %d", len(deps), len(want))
	}
	for _, d := range deps {
		if !want[d.ID] {
			t.Errorf("unexpected dependent %q", d.ID)
		}
	}

	if got := c.Prerequisites("nonexistent"); got != nil {
		t.Errorf("Prerequisites(nonexistent) = %v, want nil", got)
	}
}

func TestTopologicalOrder(t *testing.T) {
	c := Seed()
	order := c.TopologicalOrder()
	if len(order) != c.Len() {
		t.Fatalf("topological order has %d nodes, want %d", len(order), c.Len())
	}
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n.ID] = i
	}
	for _, n := range order {
		for _, p := range n.Prerequisites {
			if pos[p] >= pos[n.ID] {
				t.Errorf("%q (pos %d) should come before %q (pos %d)", p, pos[p], n.ID, pos[n.ID])
			}
		}
	}
}

func TestByCategory(t *testing.T) {
	tests := []struct {
		cat  Category
		want int
	}{
		{CategoryFoundation, 1},
		{CategoryScience, 5},
		{CategoryCommerce, 2},
		{CategoryArts, 3},
		{CategoryInterdisciplinary, 2},
	}
	for _, tt := range tests {
		if got := len(Seed().ByCategory(tt.cat)); got != tt.want {
			t.Errorf("ByCategory(%q) = %d nodes, want %d", tt.cat, got, tt.want)
		}
	}
	if got := len(Seed().Categories()); got != 5 {
		t.Errorf("Categories() = %d, want 5", got)
	}
}

func TestExtend(t *testing.T) {
	base := MustCatalog([]Node{
		{ID: "a", Title: "A", Difficulty: 1, XPReward: 100},
		{ID: "b", Title: "B", Difficulty: 2, XPReward: 150, Prerequisites: []string{"a"}},
	})

	ext, err := base.Extend([]Node{
		{ID: "b", Title: "B v2", Difficulty: 2, XPReward: 150, Prerequisites: []string{"a"}},
		{ID: "c", Title: "C", Difficulty: 3, XPReward: 200, Prerequisites: []string{"b"}},
	})
	if err != nil {
		t.Fatalf("extend: %v", err)
	}

	if ext.Len() != 3 {
		t.Errorf("extended catalog has %d nodes, want 3", ext.Len())
	}
	if n, _ := ext.Node("b"); n.Title != "B v2" {
		t.Errorf("b title = %q, want replacement", n.Title)
	}
	if base.Len() != 2 || base.Has("c") {
		t.Error("Extend mutated the receiver")
	}
	if n, _ := base.Node("b"); n.Title != "B" {
		t.Errorf("receiver node b changed to %q", n.Title)
	}
	if ext.Revision() == base.Revision() {
		t.Error("revision should change when nodes are added")
	}
}

func TestExtend_RejectsCycle(t *testing.T) {
	base := MustCatalog([]Node{
		{ID: "a", Difficulty: 1},
		{ID: "b", Difficulty: 1, Prerequisites: []string{"a"}},
	})
	_, err := base.Extend([]Node{{ID: "a", Difficulty: 1, Prerequisites: []string{"b"}}})
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	nodes := []Node{{ID: "a", Difficulty: 1}, {ID: "b", Difficulty: 1, Prerequisites: []string{"a"}}}
	c := MustCatalog(nodes)
	nodes[1].Prerequisites[0] = "mutated"

	n, _ := c.Node("b")
	if n.Prerequisites[0] != "a" {
		t.Errorf("catalog shares prerequisite slice with caller: %v", n.Prerequisites)
	}
}

func TestRevision_StableForSameContent(t *testing.T) {
	a := MustCatalog(seedNodes())
	b := MustCatalog(seedNodes())
	if a.Revision() != b.Revision() {
		t.Error("identical catalogs should share a revision")
	}
}

func TestAncestors(t *testing.T) {
	c := Seed()
	got := c.Ancestors("ai-engineer")
	var ids []string
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	want := []string{"foundation-basics", "science-gateway", "engineering-path", "cs-engineering", "data-scientist"}
	if len(ids) != len(want) {
		t.Fatalf("Ancestors(ai-engineer) = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Ancestors(ai-engineer) = %v, want %v", ids, want)
		}
	}

	if got := c.Ancestors("foundation-basics"); len(got) != 0 {
		t.Errorf("root has ancestors: %v", got)
	}
	if got := c.Ancestors("missing"); got != nil {
		t.Errorf("Ancestors(missing) = %v, want nil", got)
	}
}
