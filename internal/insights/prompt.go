package insights

import (
	"fmt"

	"career-backend/internal/llm"
)

func insightPrompt(industry string) string {
	return fmt.Sprintf(`Analyze the current state of the %s industry and provide insights in ONLY the following JSON format without any additional notes or explanations:
{
  "salaryRanges": [
    { "role": "string", "min": number, "max": number, "median": number, "location": "string" }
  ],
  "growthRate": number,
  "demandLevel": "High" | "Medium" | "Low",
  "topSkills": ["skill1", "skill2"],
  "marketOutlook": "Positive" | "Neutral" | "Negative",
  "keyTrends": ["trend1", "trend2"],
  "recommendedSkills": ["skill1", "skill2"]
}

IMPORTANT: Return ONLY the JSON. No additional text, notes, or markdown formatting.
Include at least 5 common roles for salary ranges.
Growth rate should be a percentage.
Include at least 5 skills and trends.`, industry)
}

// insightSchema constrains the generated insight shape. Enum casing is left
// open here; normalization to the uppercase allow-list happens after decode.
func insightSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "industry-insight",
		Description: "Market insight for one industry",
		Definition: map[string]any{
			"type": "object",
			"required": []any{
				"salaryRanges", "growthRate", "demandLevel", "topSkills",
				"marketOutlook", "keyTrends", "recommendedSkills",
			},
			"properties": map[string]any{
				"salaryRanges": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"role", "min", "max", "median", "location"},
						"properties": map[string]any{
							"role":     map[string]any{"type": "string"},
							"min":      map[string]any{"type": "number"},
							"max":      map[string]any{"type": "number"},
							"median":   map[string]any{"type": "number"},
							"location": map[string]any{"type": "string"},
						},
					},
				},
				"growthRate":  map[string]any{"type": "number"},
				"demandLevel": map[string]any{"type": "string"},
				"topSkills": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"marketOutlook": map[string]any{"type": "string"},
				"keyTrends": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"recommendedSkills": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
	}
}
