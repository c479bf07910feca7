// Package progress holds the per-user progression state: completed and
// started nodes, the recommended path, XP, level and achievements.
//
// Progress is a value. Transitions build a new Progress and never modify
// the one they were given.
package progress

import "slices"

// XPPerLevel is the width of one level in XP.
const XPPerLevel = 1000

// LevelFor returns the level reached with xp experience points.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// Progress is one user's progression state.
type Progress struct {
	CompletedNodes    []string      `json:"completedNodes"`
	InProgressNodes   []string      `json:"inProgressNodes"`
	AIRecommendedPath []string      `json:"aiRecommendedPath"`
	TotalXP           int           `json:"totalXP"`
	Level             int           `json:"level"`
	Achievements      []Achievement `json:"achievements"`

	// Version counts persisted writes. Zero means never saved.
	Version int64 `json:"version"`
}

// New returns the all-zero progress of a new account.
func New() Progress {
	return Progress{
		CompletedNodes:    []string{},
		InProgressNodes:   []string{},
		AIRecommendedPath: []string{},
		Achievements:      []Achievement{},
		Level:             1,
	}
}

// IsCompleted reports whether id has been completed.
func (p Progress) IsCompleted(id string) bool {
	return slices.Contains(p.CompletedNodes, id)
}

// IsInProgress reports whether id has been started and not completed.
func (p Progress) IsInProgress(id string) bool {
	return slices.Contains(p.InProgressNodes, id)
}

// IsRecommended reports whether id is on the recommended path.
func (p Progress) IsRecommended(id string) bool {
	return slices.Contains(p.AIRecommendedPath, id)
}

// HasAchievement reports whether an achievement with key was unlocked.
func (p Progress) HasAchievement(key string) bool {
	return slices.ContainsFunc(p.Achievements, func(a Achievement) bool { return a.Key == key })
}

// XPToNextLevel returns the XP still needed to reach the next level.
func (p Progress) XPToNextLevel() int {
	return LevelFor(p.TotalXP)*XPPerLevel - p.TotalXP
}

// LevelProgress returns the XP earned inside the current level.
func (p Progress) LevelProgress() int {
	return p.TotalXP % XPPerLevel
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	c := p
	c.CompletedNodes = cloneOrEmpty(p.CompletedNodes)
	c.InProgressNodes = cloneOrEmpty(p.InProgressNodes)
	c.AIRecommendedPath = cloneOrEmpty(p.AIRecommendedPath)
	c.Achievements = slices.Clone(p.Achievements)
	if c.Achievements == nil {
		c.Achievements = []Achievement{}
	}
	return c
}

// Normalized returns p with duplicate ids removed (first occurrence
// kept), negative XP clamped to zero, completed nodes dropped from the
// in-progress set and the level recomputed. It is applied to every
// progress value read from outside the process.
func (p Progress) Normalized() Progress {
	c := p.Clone()
	c.CompletedNodes = Dedupe(c.CompletedNodes)
	c.InProgressNodes = slices.DeleteFunc(Dedupe(c.InProgressNodes), func(id string) bool {
		return slices.Contains(c.CompletedNodes, id)
	})
	c.AIRecommendedPath = Dedupe(c.AIRecommendedPath)
	if c.TotalXP < 0 {
		c.TotalXP = 0
	}
	c.Level = LevelFor(c.TotalXP)
	return c
}

// Dedupe returns ids without duplicates, preserving first occurrence order.
func Dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
