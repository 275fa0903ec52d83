package lessons

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/tutorium/internal/llm"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

var testTopic = topicgraph.Topic{
	Name:       "linear equations",
	Level:      2,
	Difficulty: 0.5,
}

const validLessonJSON = `{
	"title": "Solving Linear Equations",
	"explanation": "A linear equation has one unknown.",
	"example": "1. Start with 2x + 3 = 7. 2. Subtract 3. 3. Divide by 2. x = 2.",
	"question": {
		"text": "Solve 3x + 1 = 10",
		"answer": "3",
		"hint": "Undo the +1 first."
	}
}`

func waitForLesson(t *testing.T, s *Service) *Lesson {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if lesson, ok := s.ConsumeLesson(); ok {
			return lesson
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no lesson ready before deadline")
	return nil
}

func TestRequestAndConsumeLesson(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validLessonJSON)},
	)
	s := NewService(mock, DefaultConfig())

	if _, ok := s.ConsumeLesson(); ok {
		t.Fatal("ConsumeLesson() ok = true before any request")
	}

	s.RequestLesson(context.Background(), LessonInput{
		Topic:        testTopic,
		StudentLevel: 1.8,
	})

	lesson := waitForLesson(t, s)
	if lesson.TopicName != "linear equations" {
		t.Errorf("TopicName = %q", lesson.TopicName)
	}
	if lesson.Question.Answer != "3" {
		t.Errorf("Question.Answer = %q", lesson.Question.Answer)
	}

	// Slot cleared after consumption.
	if _, ok := s.ConsumeLesson(); ok {
		t.Error("ConsumeLesson() ok = true after slot consumed")
	}
}

func TestConsumeLessonAfterFailure(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	s := NewService(mock, DefaultConfig())

	s.RequestLesson(context.Background(), LessonInput{Topic: testTopic})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		ready := s.ready
		s.mu.Unlock()
		if ready {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if lesson, ok := s.ConsumeLesson(); ok || lesson != nil {
		t.Errorf("ConsumeLesson() = (%v, %v) after failed generation, want (nil, false)", lesson, ok)
	}
}

func TestGenerateLessonPromptContents(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validLessonJSON)},
	)
	s := NewService(mock, DefaultConfig())

	_, err := s.GenerateLesson(context.Background(), LessonInput{
		Topic:        testTopic,
		StudentLevel: 1.8,
		RecentTopics: []string{"basic equations"},
	})
	if err != nil {
		t.Fatalf("GenerateLesson() error = %v", err)
	}

	req := mock.Calls[0]
	if req.Schema != LessonSchema {
		t.Error("request did not carry LessonSchema")
	}
	body := req.Messages[0].Content
	for _, want := range []string{"linear equations", "1.80", "basic equations"} {
		if !strings.Contains(body, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGradeAnswer(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		wantCorrect bool
	}{
		{
			name:        "correct answer",
			response:    `{"correct":true,"feedback":"Right, x = 3."}`,
			wantCorrect: true,
		},
		{
			name:        "incorrect answer",
			response:    `{"correct":false,"feedback":"Check your subtraction step."}`,
			wantCorrect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(
				llm.MockResponse{Content: json.RawMessage(tt.response)},
			)
			s := NewService(mock, DefaultConfig())

			grade, err := s.GradeAnswer(context.Background(), GradeInput{
				Topic:    testTopic,
				Question: Question{Text: "Solve 3x + 1 = 10", Answer: "3"},
				Answer:   "x = 3",
			})
			if err != nil {
				t.Fatalf("GradeAnswer() error = %v", err)
			}
			if grade.Correct != tt.wantCorrect {
				t.Errorf("Correct = %v, want %v", grade.Correct, tt.wantCorrect)
			}
			if grade.Feedback == "" {
				t.Error("Feedback is empty")
			}
		})
	}
}

func TestGradeAnswerProviderError(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	s := NewService(mock, DefaultConfig())

	_, err := s.GradeAnswer(context.Background(), GradeInput{
		Topic:    testTopic,
		Question: Question{Text: "q", Answer: "a"},
		Answer:   "b",
	})
	if err == nil {
		t.Fatal("GradeAnswer() error = nil, want provider error")
	}
}
