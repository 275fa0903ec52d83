// Package student simulates a learner with a hidden true skill level.
// The simulator drives automated sessions so the policy's convergence
// can be exercised without a human in the loop.
package student

import (
	"math/rand/v2"

	"github.com/abhisek/tutorium/internal/topicgraph"
)

// Attempt records one simulated answer.
type Attempt struct {
	Topic       string  `json:"topic"`
	Level       int     `json:"level"`
	Difficulty  float64 `json:"difficulty"`
	Correct     bool    `json:"correct"`
	Probability float64 `json:"probability"`
}

// Student answers questions with a probability that decays as the topic
// level moves away from its hidden true level, plus Gaussian noise.
// The true level is never visible to the teacher; only the boolean
// outcomes are.
type Student struct {
	trueLevel float64
	variance  float64
	rng       *rand.Rand

	total    int
	correct  int
	attempts []Attempt
}

// New creates a simulated student. variance controls how noisy the
// performance is around the base probability.
func New(trueLevel, variance float64, rng *rand.Rand) *Student {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Student{trueLevel: trueLevel, variance: variance, rng: rng}
}

// Answer simulates answering a question on the topic and returns
// whether the answer was correct.
func (s *Student) Answer(topic topicgraph.Topic) bool {
	diff := float64(topic.Level) - s.trueLevel
	if diff < 0 {
		diff = -diff
	}

	base := 1.0 - diff*0.2
	if base < 0.1 {
		base = 0.1
	}

	p := base + s.rng.NormFloat64()*s.variance
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	correct := s.rng.Float64() < p

	s.total++
	if correct {
		s.correct++
	}
	s.attempts = append(s.attempts, Attempt{
		Topic:       topic.Name,
		Level:       topic.Level,
		Difficulty:  topic.Difficulty,
		Correct:     correct,
		Probability: p,
	})
	return correct
}

// TrueLevel returns the hidden skill level.
func (s *Student) TrueLevel() float64 {
	return s.trueLevel
}

// Accuracy returns the fraction of correct answers so far, 0.0 before
// any attempt.
func (s *Student) Accuracy() float64 {
	if s.total == 0 {
		return 0.0
	}
	return float64(s.correct) / float64(s.total)
}

// Totals returns (questions answered, correct answers).
func (s *Student) Totals() (int, int) {
	return s.total, s.correct
}

// RecentAttempts returns a copy of the last n attempts.
func (s *Student) RecentAttempts(n int) []Attempt {
	if n > len(s.attempts) {
		n = len(s.attempts)
	}
	out := make([]Attempt, n)
	copy(out, s.attempts[len(s.attempts)-n:])
	return out
}

// Reset clears the statistics but keeps the true level.
func (s *Student) Reset() {
	s.total = 0
	s.correct = 0
	s.attempts = nil
}
