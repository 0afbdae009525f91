package studyaid

import "github.com/examprep/examprep/internal/llm"

// ExplanationSchema defines the JSON schema for question explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "question-explanation",
	Description: "Explanation of the correct alternative of a multiple-choice exam question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct alternative is right (3-5 sentences)",
			},
			"why_chosen_is_wrong": map[string]any{
				"type":        "string",
				"description": "Why the learner's chosen alternative is wrong; empty when the learner was right",
			},
			"key_concept": map[string]any{
				"type":        "string",
				"description": "The concept to review, in a few words",
			},
		},
		"required":             []any{"explanation", "why_chosen_is_wrong", "key_concept"},
		"additionalProperties": false,
	},
}

// TipsSchema defines the JSON schema for per-subject study tips.
var TipsSchema = &llm.Schema{
	Name:        "study-tips",
	Description: "Study advice for the learner's weakest exam subjects",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tips": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"subject": map[string]any{
							"type":        "string",
							"description": "Subject name exactly as given",
						},
						"advice": map[string]any{
							"type":        "string",
							"description": "Two or three sentences of targeted advice",
						},
						"actions": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "2-4 concrete study actions (5-12 words each)",
						},
					},
					"required":             []any{"subject", "advice", "actions"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"tips"},
		"additionalProperties": false,
	},
}
