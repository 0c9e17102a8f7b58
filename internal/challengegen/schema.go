package challengegen

import "github.com/aliskhannn/devchallenge-bot/internal/llm"

// ChallengeSchema is the JSON schema of a generated challenge.
var ChallengeSchema = &llm.Schema{
	Name:        "coding-challenge",
	Description: "A short beginner coding challenge with a one-line answer and progressive hints",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Short catchy title, at most five words",
			},
			"question": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Clear, simple question answerable in one line",
			},
			"answer": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The correct answer: one line of code or a short phrase",
			},
			"hints": map[string]any{
				"type":        "array",
				"minItems":    2,
				"maxItems":    3,
				"items":       map[string]any{"type": "string", "minLength": 1},
				"description": "Hints ordered from a gentle nudge to almost giving it away",
			},
		},
		"required":             []any{"title", "question", "answer", "hints"},
		"additionalProperties": false,
	},
}
