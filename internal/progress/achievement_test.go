package progress

import (
	"testing"

	"github.com/abhisek/careertree/internal/skilltree"
)

func testCatalog() *skilltree.Catalog {
	return skilltree.MustCatalog([]skilltree.Node{
		{ID: "root", Title: "Root", Category: skilltree.CategoryFoundation, Difficulty: 1, XPReward: 100},
		{ID: "sci", Title: "Science", Category: skilltree.CategoryScience, Difficulty: 2, XPReward: 950, Prerequisites: []string{"root"}},
		{ID: "art", Title: "Art", Category: skilltree.CategoryArts, Difficulty: 2, XPReward: 100, Prerequisites: []string{"root"}},
		{ID: "art2", Title: "Art II", Category: skilltree.CategoryArts, Difficulty: 3, XPReward: 100, Prerequisites: []string{"art"}},
	})
}

func keys(as []Achievement) map[string]AchievementType {
	m := make(map[string]AchievementType, len(as))
	for _, a := range as {
		m[a.Key] = a.Type
	}
	return m
}

func TestDefaultPolicy_FirstUnlockAndFoundationMaster(t *testing.T) {
	prev := New()
	next := prev.Clone()
	next.CompletedNodes = []string{"root"}
	next.TotalXP = 100
	next.Level = LevelFor(100)

	got := keys(DefaultPolicy{}.Evaluate(prev, next, testCatalog()))
	if got["first_unlock"] != AchievementFirstUnlock {
		t.Errorf("expected first_unlock, got %v", got)
	}
	if got["category:foundation"] != AchievementSkillMaster {
		t.Errorf("expected foundation skill master, got %v", got)
	}
	if len(got) != 2 {
		t.Errorf("got %d achievements, want 2: %v", len(got), got)
	}
}

func TestDefaultPolicy_LevelUp(t *testing.T) {
	prev := New()
	prev.CompletedNodes = []string{"root"}
	prev.TotalXP = 100
	next := prev.Clone()
	next.CompletedNodes = append(next.CompletedNodes, "sci")
	next.TotalXP = 1050
	next.Level = 2

	got := keys(DefaultPolicy{}.Evaluate(prev, next, testCatalog()))
	if got["level:2"] != AchievementDedicatedLearner {
		t.Errorf("expected level:2, got %v", got)
	}
	if _, ok := got["first_unlock"]; ok {
		t.Error("first_unlock must only fire for the first completion")
	}
}

func TestDefaultPolicy_ZeroValueIsLevelOne(t *testing.T) {
	var prev Progress
	next := prev.Clone()
	next.CompletedNodes = []string{"root"}
	next.TotalXP = 100
	next.Level = LevelFor(100)

	got := keys(DefaultPolicy{}.Evaluate(prev, next, testCatalog()))
	if _, ok := got["level:1"]; ok {
		t.Errorf("level 1 is where everyone starts, got %v", got)
	}
	if got["first_unlock"] != AchievementFirstUnlock {
		t.Errorf("expected first_unlock, got %v", got)
	}
}

func TestDefaultPolicy_SkipsAlreadyUnlocked(t *testing.T) {
	prev := New()
	next := prev.Clone()
	next.CompletedNodes = []string{"root"}
	next.Achievements = []Achievement{{Key: "first_unlock", Type: AchievementFirstUnlock}}

	got := keys(DefaultPolicy{}.Evaluate(prev, next, testCatalog()))
	if _, ok := got["first_unlock"]; ok {
		t.Error("achievement already present should not be unlocked again")
	}
}

func TestDefaultPolicy_ExplorerAndPath(t *testing.T) {
	prev := New()
	prev.CompletedNodes = []string{"root", "sci"}
	prev.AIRecommendedPath = []string{"sci", "art"}
	prev.Level = 2
	next := prev.Clone()
	next.CompletedNodes = append(next.CompletedNodes, "art")
	next.Level = 2

	got := keys(DefaultPolicy{}.Evaluate(prev, next, testCatalog()))
	if got["explorer"] != AchievementExplorer {
		t.Errorf("expected explorer, got %v", got)
	}
	found := false
	for k, typ := range got {
		if typ == AchievementPathCompletion && len(k) > len("path:") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected path completion, got %v", got)
	}
	if _, ok := got["category:arts"]; ok {
		t.Error("arts is not fully completed yet")
	}
}

func TestNoAchievements(t *testing.T) {
	next := New()
	next.CompletedNodes = []string{"root"}
	if got := NoAchievements.Evaluate(New(), next, testCatalog()); len(got) != 0 {
		t.Errorf("NoAchievements returned %v", got)
	}
}
