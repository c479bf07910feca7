package personalize

import "github.com/abhisek/careertree/internal/llm"

// CandidateSchema defines the JSON schema for generated career paths.
var CandidateSchema = &llm.Schema{
	Name:        "career-path",
	Description: "A personalized career skill tree with ordered nodes and recommendations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title of the recommended career path",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Two or three sentences describing the path",
			},
			"primaryPath": map[string]any{
				"type":        "string",
				"description": "Main career focus area",
			},
			"nodes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Unique kebab-case id, referenced by prerequisites",
						},
						"title": map[string]any{
							"type": "string",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "What this skill or milestone covers",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "One of foundation, core-skills, advanced, specialization, soft-skills",
						},
						"level": map[string]any{
							"type": "string",
							"enum": []any{"beginner", "intermediate", "advanced", "expert"},
						},
						"prerequisites": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Ids of nodes in this list that must be completed first",
						},
						"estimatedHours": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"description": "Realistic learning time in hours",
						},
						"priority": map[string]any{
							"type": "string",
							"enum": []any{"high", "medium", "low"},
						},
					},
					"required":             []any{"id", "title", "description", "category", "level", "prerequisites", "estimatedHours", "priority"},
					"additionalProperties": false,
				},
			},
			"recommendations": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Three to five specific, actionable recommendations",
			},
		},
		"required":             []any{"title", "description", "primaryPath", "nodes", "recommendations"},
		"additionalProperties": false,
	},
}
