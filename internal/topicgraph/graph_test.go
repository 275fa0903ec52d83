package topicgraph

import (
	"math/rand/v2"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func testGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := New(DefaultCurriculum(), testRNG())
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func TestTopicsAtLevel(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		level int
		want  int
	}{
		{0, 2},
		{1, 2},
		{2, 2},
		{3, 2},
		{4, 1},
		{5, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		got := g.TopicsAtLevel(tt.level)
		if len(got) != tt.want {
			t.Errorf("TopicsAtLevel(%d): got %d topics, want %d", tt.level, len(got), tt.want)
		}
		for _, topic := range got {
			if topic.Level != tt.level {
				t.Errorf("TopicsAtLevel(%d) contains topic %q at level %d", tt.level, topic.Name, topic.Level)
			}
		}
	}
}

func TestTopicsAtLevel_PreservesInsertionOrder(t *testing.T) {
	g := testGraph(t)
	topics := g.TopicsAtLevel(0)
	if topics[0].Name != "Introduction to Algebra" || topics[1].Name != "Variables and Expressions" {
		t.Errorf("level 0 order = [%q, %q], want insertion order", topics[0].Name, topics[1].Name)
	}
}

func TestAllLevels_Ascending(t *testing.T) {
	g := testGraph(t)
	levels := g.AllLevels()
	want := []int{0, 1, 2, 3, 4}
	if len(levels) != len(want) {
		t.Fatalf("got %d levels, want %d", len(levels), len(want))
	}
	for i, l := range levels {
		if l != want[i] {
			t.Errorf("levels[%d] = %d, want %d", i, l, want[i])
		}
	}
}

func TestRandomTopicAtLevel(t *testing.T) {
	g := testGraph(t)

	for i := 0; i < 50; i++ {
		topic, ok := g.RandomTopicAtLevel(2)
		if !ok {
			t.Fatal("expected a topic at level 2")
		}
		if topic.Level != 2 {
			t.Fatalf("got topic %q at level %d, want level 2", topic.Name, topic.Level)
		}
	}

	if _, ok := g.RandomTopicAtLevel(99); ok {
		t.Error("expected no topic at level 99")
	}
}

func TestRandomTopicAtLevel_EmptyGraph(t *testing.T) {
	g, err := New(nil, testRNG())
	if err != nil {
		t.Fatalf("build empty graph: %v", err)
	}
	if _, ok := g.RandomTopicAtLevel(0); ok {
		t.Error("expected no topic from an empty graph")
	}
	if g.MaxLevel() != -1 {
		t.Errorf("MaxLevel of empty graph = %d, want -1", g.MaxLevel())
	}
}

func TestTopicsInRange(t *testing.T) {
	g := testGraph(t)

	// (1, 3]: levels 2 and 3, in ascending order.
	topics := g.TopicsInRange(1, 2)
	if len(topics) != 4 {
		t.Fatalf("got %d topics, want 4", len(topics))
	}
	prev := 0
	for _, topic := range topics {
		if topic.Level < prev {
			t.Errorf("topics not in level-ascending order: %q at level %d after level %d", topic.Name, topic.Level, prev)
		}
		if topic.Level < 2 || topic.Level > 3 {
			t.Errorf("topic %q at level %d outside (1, 3]", topic.Name, topic.Level)
		}
		prev = topic.Level
	}

	// Range capped at the max known level.
	topics = g.TopicsInRange(3, 10)
	if len(topics) != 1 || topics[0].Level != 4 {
		t.Errorf("range past max level: got %d topics, want just level 4", len(topics))
	}

	// Past the end entirely.
	if got := g.TopicsInRange(4, 2); len(got) != 0 {
		t.Errorf("range beyond curriculum: got %d topics, want 0", len(got))
	}
}

func TestTopicByName(t *testing.T) {
	g := testGraph(t)

	topic, ok := g.TopicByName("Quadratic Equations")
	if !ok {
		t.Fatal("expected to find Quadratic Equations")
	}
	if topic.Level != 2 {
		t.Errorf("level = %d, want 2", topic.Level)
	}

	if _, ok := g.TopicByName("Nonexistent"); ok {
		t.Error("expected miss for unknown name")
	}
}

func TestDifficultyOf(t *testing.T) {
	g := testGraph(t)

	if d := g.DifficultyOf("Calculus Fundamentals"); d != 0.95 {
		t.Errorf("difficulty = %v, want 0.95", d)
	}
	// Unknown names default to 0.0 rather than erroring.
	if d := g.DifficultyOf("Nonexistent"); d != 0.0 {
		t.Errorf("difficulty of unknown = %v, want 0.0", d)
	}
}

func TestIsAccessible(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		name         string
		studentLevel int
		want         bool
	}{
		{"Introduction to Algebra", 0, true},
		{"Linear Equations", 0, false},
		{"Linear Equations", 1, true},
		{"Linear Equations", 3, true},
		{"Calculus Fundamentals", 3, false},
		{"Calculus Fundamentals", 4, true},
		{"Nonexistent", 10, false},
	}
	for _, tt := range tests {
		if got := g.IsAccessible(tt.name, tt.studentLevel); got != tt.want {
			t.Errorf("IsAccessible(%q, %d) = %v, want %v", tt.name, tt.studentLevel, got, tt.want)
		}
	}
}

func TestIdempotentReads(t *testing.T) {
	g := testGraph(t)

	first := g.TopicsAtLevel(1)
	second := g.TopicsAtLevel(1)
	if len(first) != len(second) {
		t.Fatal("consecutive TopicsAtLevel reads differ in length")
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("read %d differs: %q vs %q", i, first[i].Name, second[i].Name)
		}
	}

	l1, l2 := g.AllLevels(), g.AllLevels()
	for i := range l1 {
		if l1[i] != l2[i] {
			t.Error("consecutive AllLevels reads differ")
		}
	}
}
