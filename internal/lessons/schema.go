package lessons

import "github.com/abhisek/tutorium/internal/llm"

// LessonSchema defines the JSON schema for topic lesson generation.
var LessonSchema = &llm.Schema{
	Name:        "topic-lesson",
	Description: "A short lesson on a math topic with an explanation, a worked example, and a question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the lesson (3-8 words)",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Clear explanation of the topic (4-6 sentences), pitched to the student's level",
			},
			"example": map[string]any{
				"type":        "string",
				"description": "A complete worked example with numbered steps",
			},
			"question": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "A question the student can solve using the explanation and example",
					},
					"answer": map[string]any{
						"type":        "string",
						"description": "The correct answer",
					},
					"hint": map[string]any{
						"type":        "string",
						"description": "A one-sentence hint that does not give the answer away",
					},
				},
				"required":             []any{"text", "answer", "hint"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"title", "explanation", "example", "question"},
		"additionalProperties": false,
	},
}

// GradingSchema defines the JSON schema for answer grading.
var GradingSchema = &llm.Schema{
	Name:        "answer-grading",
	Description: "Verdict and feedback for a student's free-text answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer is mathematically correct",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "1-3 sentences of feedback. Encouraging if correct, corrective if not",
			},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}
