package assessments

import (
	"fmt"
	"strings"

	"career-backend/internal/llm"
)

const quizSize = 10

func quizPrompt(industry string, skills []string) string {
	expertise := ""
	if len(skills) > 0 {
		expertise = fmt.Sprintf(" with expertise in %s", strings.Join(skills, ", "))
	}
	return fmt.Sprintf(`Generate %d technical interview questions for a %s professional%s.

Each question should be multiple choice with 4 options.

Return the response in this JSON format only, no additional text:
{
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctAnswer": "string",
      "explanation": "string"
    }
  ]
}`, quizSize, industry, expertise)
}

func quizSchema() *llm.Schema {
	question := map[string]any{
		"type":     "object",
		"required": []any{"question", "options", "correctAnswer", "explanation"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"correctAnswer": map[string]any{"type": "string"},
			"explanation":   map[string]any{"type": "string"},
		},
	}
	return &llm.Schema{
		Name:        "interview-quiz",
		Description: "Multiple-choice technical interview quiz",
		Definition: map[string]any{
			"type":     "object",
			"required": []any{"questions"},
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"items":    question,
					"minItems": quizSize,
					"maxItems": quizSize,
				},
			},
		},
	}
}

func tipPrompt(industry string, wrong []QuestionResult) string {
	var b strings.Builder
	for i, q := range wrong {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Question: %q\nCorrect Answer: %q\nUser Answer: %q", q.Question, q.Answer, q.UserAnswer)
	}

	return fmt.Sprintf(`The user got the following %s technical interview questions wrong:

%s

Based on these mistakes, provide a concise, specific improvement tip.
Focus on the knowledge gaps revealed by these wrong answers.
Keep the response under 2 sentences and make it encouraging.
Don't explicitly mention the mistakes, instead focus on what to learn/practice.`, industry, b.String())
}
