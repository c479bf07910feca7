package progress

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/careertree/internal/skilltree"
)

// AchievementType identifies the kind of achievement.
type AchievementType string

const (
	AchievementFirstUnlock      AchievementType = "first_unlock"
	AchievementPathCompletion   AchievementType = "path_completion"
	AchievementSkillMaster      AchievementType = "skill_master"
	AchievementExplorer         AchievementType = "explorer"
	AchievementDedicatedLearner AchievementType = "dedicated_learner"
)

// AllAchievementTypes returns all achievement types in display order.
func AllAchievementTypes() []AchievementType {
	return []AchievementType{
		AchievementFirstUnlock,
		AchievementDedicatedLearner,
		AchievementSkillMaster,
		AchievementExplorer,
		AchievementPathCompletion,
	}
}

// DisplayName returns a human-readable label for the achievement type.
func (t AchievementType) DisplayName() string {
	switch t {
	case AchievementFirstUnlock:
		return "First Unlock"
	case AchievementPathCompletion:
		return "Path Completion"
	case AchievementSkillMaster:
		return "Skill Master"
	case AchievementExplorer:
		return "Explorer"
	case AchievementDedicatedLearner:
		return "Dedicated Learner"
	default:
		return string(t)
	}
}

// Achievement is an unlocked achievement record. Key identifies what was
// achieved ("level:3", "category:science") so that each one is unlocked
// at most once.
type Achievement struct {
	ID          string          `json:"id"`
	Type        AchievementType `json:"type"`
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	UnlockedAt  time.Time       `json:"unlockedAt"`
}

// Policy decides which achievements a completion unlocks. prev is the
// progress before the completion, next the progress after it. Returned
// achievements carry Type, Key, Title and Description; the caller stamps
// ID and UnlockedAt.
type Policy interface {
	Evaluate(prev, next Progress, catalog *skilltree.Catalog) []Achievement
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(prev, next Progress, catalog *skilltree.Catalog) []Achievement

func (f PolicyFunc) Evaluate(prev, next Progress, catalog *skilltree.Catalog) []Achievement {
	return f(prev, next, catalog)
}

// NoAchievements is a policy that never unlocks anything.
var NoAchievements Policy = PolicyFunc(func(Progress, Progress, *skilltree.Catalog) []Achievement { return nil })

// DefaultPolicy unlocks the built-in achievements.
type DefaultPolicy struct {
	// ExplorerCategories is how many distinct categories must have a
	// completed node for the explorer achievement. Zero means 3.
	ExplorerCategories int
}

// Evaluate implements Policy.
func (p DefaultPolicy) Evaluate(prev, next Progress, catalog *skilltree.Catalog) []Achievement {
	var out []Achievement
	add := func(a Achievement) {
		if next.HasAchievement(a.Key) || slices.ContainsFunc(out, func(o Achievement) bool { return o.Key == a.Key }) {
			return
		}
		out = append(out, a)
	}

	if len(next.CompletedNodes) > 0 && len(prev.CompletedNodes) == 0 {
		first := next.CompletedNodes[0]
		add(Achievement{
			Type:        AchievementFirstUnlock,
			Key:         "first_unlock",
			Title:       "First Steps",
			Description: fmt.Sprintf("Completed your first node: %s", nodeTitle(catalog, first)),
		})
	}

	// Levels follow XP; the stored Level of a zero value says nothing.
	for lvl := LevelFor(prev.TotalXP) + 1; lvl <= LevelFor(next.TotalXP); lvl++ {
		add(Achievement{
			Type:        AchievementDedicatedLearner,
			Key:         fmt.Sprintf("level:%d", lvl),
			Title:       fmt.Sprintf("Level %d", lvl),
			Description: fmt.Sprintf("Reached level %d", lvl),
		})
	}

	newly := slices.DeleteFunc(slices.Clone(next.CompletedNodes), prev.IsCompleted)
	for _, cat := range touchedCategories(catalog, newly) {
		members := catalog.ByCategory(cat)
		if len(members) == 0 {
			continue
		}
		all := true
		for _, n := range members {
			if !next.IsCompleted(n.ID) {
				all = false
				break
			}
		}
		if all {
			add(Achievement{
				Type:        AchievementSkillMaster,
				Key:         "category:" + string(cat),
				Title:       cat.DisplayName() + " Master",
				Description: fmt.Sprintf("Completed every %s node", cat.DisplayName()),
			})
		}
	}

	need := p.ExplorerCategories
	if need <= 0 {
		need = 3
	}
	if covered := touchedCategories(catalog, next.CompletedNodes); len(covered) >= need {
		add(Achievement{
			Type:        AchievementExplorer,
			Key:         "explorer",
			Title:       "Explorer",
			Description: fmt.Sprintf("Completed nodes in %d different categories", len(covered)),
		})
	}

	if path := next.AIRecommendedPath; len(path) > 0 && !allCompleted(prev, path) && allCompleted(next, path) {
		add(Achievement{
			Type:        AchievementPathCompletion,
			Key:         pathKey(path),
			Title:       "Path Complete",
			Description: fmt.Sprintf("Completed all %d nodes of your recommended path", len(path)),
		})
	}

	return out
}

func nodeTitle(catalog *skilltree.Catalog, id string) string {
	if n, ok := catalog.Node(id); ok && n.Title != "" {
		return n.Title
	}
	return id
}

// touchedCategories returns the distinct categories of ids in display order.
func touchedCategories(catalog *skilltree.Catalog, ids []string) []skilltree.Category {
	seen := make(map[skilltree.Category]bool)
	for _, id := range ids {
		if n, ok := catalog.Node(id); ok && n.Category != "" {
			seen[n.Category] = true
		}
	}
	var out []skilltree.Category
	for _, cat := range skilltree.AllCategories() {
		if seen[cat] {
			out = append(out, cat)
		}
	}
	return out
}

func allCompleted(p Progress, ids []string) bool {
	for _, id := range ids {
		if !p.IsCompleted(id) {
			return false
		}
	}
	return true
}

func pathKey(path []string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(path, "\x00")))
	return fmt.Sprintf("path:%08x", h.Sum32())
}
