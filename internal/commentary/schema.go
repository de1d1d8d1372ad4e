package commentary

import (
	"github.com/abhisek/aiready/internal/catalog"
	"github.com/abhisek/aiready/internal/llm"
)

// schemaFor builds the structured-output schema: one non-empty comment
// string per catalog category, nothing else.
func schemaFor(cat *catalog.Catalog) *llm.Schema {
	props := make(map[string]any)
	required := make([]any, 0, len(cat.Categories()))
	for _, c := range cat.Categories() {
		props[string(c.Key)] = map[string]any{
			"type":        "string",
			"description": "Two or three sentences of commentary on " + c.Name,
			"minLength":   1,
		}
		required = append(required, string(c.Key))
	}

	return &llm.Schema{
		Name:        "category-commentary",
		Description: "Commentary for each readiness category, keyed by category key",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}
