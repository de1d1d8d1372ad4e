package commentary

import (
	"fmt"
	"strings"

	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/scoring"
)

const systemPrompt = `You are an advisor assessing how ready an organization is to adopt AI. You receive questionnaire scores per readiness category and write short, concrete commentary for each category.`

func buildUserMessage(cat *catalog.Catalog, res scoring.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall: %d/%d (%.1f%%), rank %s (%s)\n\n", res.Total, res.Max, res.Percentage, res.Rank, res.RankLabel)
	b.WriteString("Categories:\n")
	for _, cs := range res.Categories {
		fmt.Fprintf(&b, "- %s (key %q): %d/%d (%.1f%%)", cat.DisplayName(cs.Key), cs.Key, cs.Score, cs.Max, cs.Percentage)
		if diff, ok := res.BaselineDiff[cs.Key]; ok {
			fmt.Fprintf(&b, ", %+d against the industry baseline", diff)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
For every category key above, write 2-3 sentences that:
1. State plainly where the organization stands in that category.
2. Name the single most useful next step.
Do not repeat the numbers verbatim. Use plain text, no markdown.`)

	return b.String()
}
