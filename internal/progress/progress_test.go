package progress

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1050, 2},
		{2999, 3},
		{10000, 11},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	p := New()
	if p.Level != 1 || p.TotalXP != 0 {
		t.Errorf("New() = level %d xp %d, want level 1 xp 0", p.Level, p.TotalXP)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"completedNodes", "aiRecommendedPath", "achievements"} {
		if _, ok := raw[key].([]any); !ok {
			t.Errorf("%s should encode as an empty array, got %v", key, raw[key])
		}
	}
}

func TestLevelHelpers(t *testing.T) {
	p := Progress{TotalXP: 1250, Level: 2}
	if got := p.XPToNextLevel(); got != 750 {
		t.Errorf("XPToNextLevel = %d, want 750", got)
	}
	if got := p.LevelProgress(); got != 250 {
		t.Errorf("LevelProgress = %d, want 250", got)
	}
}

func TestNormalized(t *testing.T) {
	p := Progress{
		CompletedNodes:    []string{"a", "b", "a"},
		InProgressNodes:   []string{"b", "c", "c"},
		AIRecommendedPath: []string{"c", "d", "c"},
		TotalXP:           2100,
		Level:             1,
	}
	n := p.Normalized()

	if !slices.Equal(n.CompletedNodes, []string{"a", "b"}) {
		t.Errorf("completed = %v", n.CompletedNodes)
	}
	if !slices.Equal(n.InProgressNodes, []string{"c"}) {
		t.Errorf("in progress = %v", n.InProgressNodes)
	}
	if !slices.Equal(n.AIRecommendedPath, []string{"c", "d"}) {
		t.Errorf("path = %v", n.AIRecommendedPath)
	}
	if n.Level != 3 {
		t.Errorf("level = %d, want 3", n.Level)
	}
	if len(p.CompletedNodes) != 3 {
		t.Error("Normalized mutated its receiver")
	}
}

func TestClone_Independent(t *testing.T) {
	p := New()
	p.CompletedNodes = append(p.CompletedNodes, "a")
	c := p.Clone()
	c.CompletedNodes[0] = "z"
	if p.CompletedNodes[0] != "a" {
		t.Error("Clone shares the completed slice")
	}
}
