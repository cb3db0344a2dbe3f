package mcq

import "github.com/rebel47/mcq-generator/internal/llm"

// envelopeSchema is the minimum shape a response must have before entries
// are looked at one by one.
var envelopeSchema = &llm.Schema{
	Name:        "mcq-envelope",
	Description: "Top-level wrapper holding the generated questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{"type": "array"},
		},
		"required": []any{"questions"},
	},
}

// QuestionSetSchema requests native structured output from providers that
// support it. Entries are still validated one by one afterwards.
var QuestionSetSchema = &llm.Schema{
	Name:        "mcq-question-set",
	Description: "A set of multiple-choice questions with four labelled options each",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"A": map[string]any{"type": "string"},
								"B": map[string]any{"type": "string"},
								"C": map[string]any{"type": "string"},
								"D": map[string]any{"type": "string"},
							},
							"required":             []any{"A", "B", "C", "D"},
							"additionalProperties": false,
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "Label of the single correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is right",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
