package tracker

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
)

func fromData(d *store.ProgressData) progress.Progress {
	if d == nil {
		return progress.New()
	}
	p := progress.Progress{
		CompletedNodes:    d.CompletedNodes,
		InProgressNodes:   d.InProgressNodes,
		AIRecommendedPath: d.RecommendedPath,
		TotalXP:           d.TotalXP,
		Level:             d.Level,
		Version:           d.Version,
	}
	for _, a := range d.Achievements {
		p.Achievements = append(p.Achievements, progress.Achievement{
			ID:          a.ID,
			Type:        progress.AchievementType(a.Type),
			Key:         a.Key,
			Title:       a.Title,
			Description: a.Description,
			UnlockedAt:  a.UnlockedAt,
		})
	}
	return p.Normalized()
}

func toData(userID string, p progress.Progress) store.ProgressData {
	d := store.ProgressData{
		UserID:          userID,
		Version:         p.Version,
		CompletedNodes:  p.CompletedNodes,
		InProgressNodes: p.InProgressNodes,
		RecommendedPath: p.AIRecommendedPath,
		TotalXP:         p.TotalXP,
		Level:           p.Level,
		Achievements:    make([]store.AchievementData, 0, len(p.Achievements)),
	}
	for _, a := range p.Achievements {
		d.Achievements = append(d.Achievements, store.AchievementData{
			ID:          a.ID,
			Type:        string(a.Type),
			Key:         a.Key,
			Title:       a.Title,
			Description: a.Description,
			UnlockedAt:  a.UnlockedAt,
		})
	}
	return d
}

func encodeNodes(nodes []skilltree.Node) ([]store.CatalogNodeData, error) {
	out := make([]store.CatalogNodeData, 0, len(nodes))
	for _, n := range nodes {
		data, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("encode node %q: %w", n.ID, err)
		}
		out = append(out, store.CatalogNodeData{NodeID: n.ID, Source: string(n.Source), Data: data})
	}
	return out, nil
}

func decodeNodes(rows []store.CatalogNodeData) ([]skilltree.Node, error) {
	out := make([]skilltree.Node, 0, len(rows))
	for _, r := range rows {
		var n skilltree.Node
		if err := json.Unmarshal(r.Data, &n); err != nil {
			return nil, fmt.Errorf("decode node %q: %w", r.NodeID, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func achievementKeys(as []progress.Achievement) []string {
	keys := make([]string, 0, len(as))
	for _, a := range as {
		keys = append(keys, a.Key)
	}
	return keys
}
