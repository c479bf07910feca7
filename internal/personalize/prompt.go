package personalize

import (
	"fmt"
	"strings"

	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
)

const systemPrompt = `You are a career advisor. Based on a user's questionnaire answers, you design a personalized skill tree for their career development.

Rules:
- Create 12-20 nodes representing skills, knowledge areas, or milestones.
- Start with foundational skills (beginner level) and progress to advanced and expert.
- Include both technical and soft skills relevant to the user's interests.
- Prerequisites must reference ids of other nodes in your list (or of existing nodes listed below) and must never form a loop.
- Foundational nodes have no prerequisites.
- Estimate realistic learning hours for each node.
- Use these categories: "foundation", "core-skills", "advanced", "specialization", "soft-skills".
- Provide 3-5 specific, actionable recommendations.
- Tailor everything to the user's answers and career goals.
- Do not repeat nodes the user has already completed.`

// buildUserMessage constructs the user message from the answers and the
// state of the user's catalog.
func buildUserMessage(answers questionnaire.Answers, catalog *skilltree.Catalog, completed []string) string {
	var b strings.Builder

	b.WriteString("Questionnaire answers:\n")
	b.WriteString(questionnaire.Summary(questionnaire.Bank(), answers))

	if catalog != nil && catalog.Len() > 0 {
		b.WriteString("\nExisting nodes (id: title):\n")
		for _, n := range catalog.TopologicalOrder() {
			fmt.Fprintf(&b, "- %s: %s\n", n.ID, n.Title)
		}
	}

	b.WriteString("\nAlready completed:\n")
	if len(completed) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString(strings.Join(completed, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
