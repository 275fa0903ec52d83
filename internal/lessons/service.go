package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/tutorium/internal/llm"
)

// Service generates lessons asynchronously and grades answers
// synchronously.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	pending *Lesson
	err     error
	ready   bool
}

// NewService creates a lesson service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// RequestLesson starts async lesson generation. Only one lesson is
// in-flight at a time, new requests replace pending ones.
func (s *Service) RequestLesson(ctx context.Context, input LessonInput) {
	go func() {
		lesson, err := s.generate(ctx, input)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = lesson
		s.err = err
		s.ready = true
	}()
}

// ConsumeLesson returns the pending lesson if one is ready.
// Returns (nil, false) if no lesson is ready yet. After consumption,
// the pending slot is cleared.
func (s *Service) ConsumeLesson() (*Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	lesson := s.pending
	s.pending = nil
	s.ready = false
	s.err = nil
	return lesson, lesson != nil
}

// GenerateLesson generates a lesson synchronously. The server uses
// this; the TUI prefers the async RequestLesson/ConsumeLesson pair.
func (s *Service) GenerateLesson(ctx context.Context, input LessonInput) (*Lesson, error) {
	return s.generate(ctx, input)
}

type lessonOutput struct {
	Title       string         `json:"title"`
	Explanation string         `json:"explanation"`
	Example     string         `json:"example"`
	Question    questionOutput `json:"question"`
}

type questionOutput struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
	Hint   string `json:"hint"`
}

func (s *Service) generate(ctx context.Context, input LessonInput) (*Lesson, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLesson)

	req := llm.Request{
		System: lessonSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonUserMessage(input)},
		},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.LessonMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lesson generation: %w", err)
	}

	var out lessonOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse lesson response: %w", err)
	}

	return &Lesson{
		TopicName:   input.Topic.Name,
		Title:       out.Title,
		Explanation: out.Explanation,
		Example:     out.Example,
		Question: Question{
			Text:   out.Question.Text,
			Answer: out.Question.Answer,
			Hint:   out.Question.Hint,
		},
	}, nil
}

type gradeOutput struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

// GradeAnswer grades a student's free-text answer to a lesson question.
func (s *Service) GradeAnswer(ctx context.Context, input GradeInput) (*Grade, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGrading)

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradingUserMessage(input)},
		},
		Schema:    GradingSchema,
		MaxTokens: s.cfg.GradingMaxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("answer grading: %w", err)
	}

	var out gradeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse grading response: %w", err)
	}

	return &Grade{Correct: out.Correct, Feedback: out.Feedback}, nil
}
