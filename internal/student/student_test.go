package student

import (
	"math/rand/v2"
	"testing"

	"github.com/abhisek/tutorium/internal/topicgraph"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(3, 5))
}

func TestAnswer_TracksStats(t *testing.T) {
	s := New(2.0, 0.3, testRNG())
	topic := topicgraph.Topic{Name: "T", Level: 2, Difficulty: 0.5}

	for i := 0; i < 40; i++ {
		s.Answer(topic)
	}

	total, correct := s.Totals()
	if total != 40 {
		t.Errorf("total = %d, want 40", total)
	}
	if correct < 0 || correct > total {
		t.Errorf("correct = %d out of range", correct)
	}
	if acc := s.Accuracy(); acc != float64(correct)/float64(total) {
		t.Errorf("accuracy = %v, inconsistent with totals", acc)
	}
}

func TestAnswer_MatchedLevelBeatsDistantLevel(t *testing.T) {
	// A student answering at its true level should do clearly better
	// than the same student answering far above it.
	near := New(1.0, 0.2, testRNG())
	far := New(1.0, 0.2, testRNG())

	nearTopic := topicgraph.Topic{Name: "N", Level: 1}
	farTopic := topicgraph.Topic{Name: "F", Level: 5}

	const trials = 2000
	for i := 0; i < trials; i++ {
		near.Answer(nearTopic)
		far.Answer(farTopic)
	}

	if near.Accuracy() <= far.Accuracy() {
		t.Errorf("near accuracy %v should exceed far accuracy %v", near.Accuracy(), far.Accuracy())
	}
}

func TestAccuracy_ZeroBeforeAttempts(t *testing.T) {
	s := New(1.0, 0.5, testRNG())
	if s.Accuracy() != 0.0 {
		t.Errorf("accuracy = %v, want 0.0", s.Accuracy())
	}
}

func TestRecentAttempts(t *testing.T) {
	s := New(1.0, 0.5, testRNG())
	topic := topicgraph.Topic{Name: "T", Level: 1}
	for i := 0; i < 8; i++ {
		s.Answer(topic)
	}

	recent := s.RecentAttempts(5)
	if len(recent) != 5 {
		t.Fatalf("got %d attempts, want 5", len(recent))
	}
	for _, a := range recent {
		if a.Topic != "T" || a.Probability < 0 || a.Probability > 1 {
			t.Errorf("malformed attempt: %+v", a)
		}
	}
}

func TestReset(t *testing.T) {
	s := New(2.5, 0.5, testRNG())
	s.Answer(topicgraph.Topic{Name: "T", Level: 2})
	s.Reset()

	if total, _ := s.Totals(); total != 0 {
		t.Errorf("total after reset = %d, want 0", total)
	}
	if s.TrueLevel() != 2.5 {
		t.Error("reset must not change the true level")
	}
	if len(s.RecentAttempts(10)) != 0 {
		t.Error("attempts survived reset")
	}
}
