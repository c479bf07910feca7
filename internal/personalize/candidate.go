// Package personalize turns questionnaire answers into a personalized
// career path and merges it into a node catalog.
//
// Generated paths are untrusted: Merge validates them against the catalog
// and repairs what it can (dangling prerequisites, cycle-closing edges)
// before anything reaches a user's catalog.
package personalize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/careertree/internal/skilltree"
)

// Level is the self-assessed depth of a generated node.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
)

var levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

// levelRewards maps levels to catalog difficulty and XP reward.
var levelRewards = map[Level]struct{ difficulty, xp int }{
	LevelBeginner:     {1, 100},
	LevelIntermediate: {2, 200},
	LevelAdvanced:     {3, 350},
	LevelExpert:       {4, 500},
}

// Priority is how strongly a generated node is recommended.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// layoutCategories are the path categories the generator is asked to use.
// They drive horizontal placement only.
var layoutCategories = []string{"foundation", "core-skills", "advanced", "specialization", "soft-skills"}

// Candidate is a generated career path before validation.
type Candidate struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	PrimaryPath     string          `json:"primaryPath"`
	Nodes           []CandidateNode `json:"nodes"`
	Recommendations []string        `json:"recommendations"`
}

// CandidateNode is one generated node.
type CandidateNode struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Level          Level    `json:"level"`
	Prerequisites  []string `json:"prerequisites"`
	EstimatedHours int      `json:"estimatedHours"`
	Priority       Priority `json:"priority"`
}

// NormalizeID trims, lower-cases and dashes a generated id.
func NormalizeID(id string) string {
	return strings.Join(strings.Fields(strings.ToLower(id)), "-")
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// catalogCategory maps a generated category onto the catalog's categories.
// Names of catalog categories pass through; anything else is
// interdisciplinary.
func catalogCategory(c string) skilltree.Category {
	cat := skilltree.Category(strings.ToLower(strings.TrimSpace(c)))
	if cat.Valid() {
		return cat
	}
	return skilltree.CategoryInterdisciplinary
}

// toNode converts cn to a catalog node with id and the given
// prerequisites. pos is the layered layout position.
func toNode(cn CandidateNode, id string, prereqs []string, pos skilltree.Position) skilltree.Node {
	reward, ok := levelRewards[cn.Level]
	if !ok {
		reward = levelRewards[LevelBeginner]
	}
	n := skilltree.Node{
		ID:             id,
		Title:          strings.TrimSpace(cn.Title),
		Description:    strings.TrimSpace(cn.Description),
		Type:           skilltree.TypeSkill,
		Category:       catalogCategory(cn.Category),
		Prerequisites:  prereqs,
		Difficulty:     reward.difficulty,
		EstimatedHours: cn.EstimatedHours,
		XPReward:       reward.xp,
		Position:       &pos,
		Source:         skilltree.SourceAI,
	}
	if n.Title == "" {
		n.Title = id
	}
	if cn.EstimatedHours > 0 {
		n.EstimatedTime = fmt.Sprintf("%d hours", cn.EstimatedHours)
	}
	return n
}

// layout places nodes in rows by level and spreads each row by order of
// appearance, nudged by path category. Unknown levels and categories use
// the first row and no nudge.
func layout(nodes []CandidateNode) []skilltree.Position {
	out := make([]skilltree.Position, len(nodes))
	perLevel := make(map[Level]int)
	for i, n := range nodes {
		row := max(slices.Index(levels, n.Level), 0)
		col := perLevel[n.Level]
		perLevel[n.Level]++
		nudge := max(slices.Index(layoutCategories, strings.ToLower(n.Category)), 0)
		out[i] = skilltree.Position{
			X: float64(col*300 + nudge*50 + 100),
			Y: float64(row*200 + 100),
		}
	}
	return out
}
