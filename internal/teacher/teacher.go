// Package teacher implements the adaptive policy: it turns answer
// events into belief updates and the current belief into a next-topic
// decision against the topic graph.
package teacher

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/tutorium/internal/belief"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

// RecentHistoryLen is how many trailing records a session summary carries.
const RecentHistoryLen = 5

// Record is one observed answer event. History is append-only; a
// mistaken input is corrected by appending another record, never by
// mutating an existing one.
type Record struct {
	Topic         string    `json:"topic"`
	Level         int       `json:"level"`
	Correct       bool      `json:"correct"`
	Observation   int       `json:"observation"`
	ExpectedValue float64   `json:"expected_value"`
	Timestamp     time.Time `json:"timestamp"`
}

// Belief is the policy's read-only view of the current posterior.
type Belief struct {
	Alpha         float64 `json:"alpha"`
	Beta          float64 `json:"beta"`
	ExpectedValue float64 `json:"expected_value"`
	HistoryLength int     `json:"history_length"`
}

// Summary aggregates a session's answer history.
type Summary struct {
	Total             int      `json:"total"`
	Correct           int      `json:"correct"`
	Accuracy          float64  `json:"accuracy"`
	LastExpectedValue float64  `json:"last_expected_value"`
	Recent            []Record `json:"recent"`
}

// Config holds the tunable parameters of a Teacher.
type Config struct {
	PriorAlpha float64
	PriorBeta  float64
}

// DefaultConfig returns the uninformative Gamma(1, 1) prior.
func DefaultConfig() Config {
	return Config{PriorAlpha: 1, PriorBeta: 1}
}

// Teacher owns one learner session: a belief estimator, the answer
// history, and a per-session lesson content overlay. The topic graph
// may be shared across teachers; everything else is session-local.
// Not safe for concurrent use.
type Teacher struct {
	graph     *topicgraph.Graph
	estimator *belief.Estimator
	rng       *rand.Rand

	history []Record

	// lessonContent overlays generated lesson text per topic name so
	// LLM collaborators never mutate the shared graph's Topic records.
	lessonContent map[string]string
}

// New creates a Teacher over the given graph. The rng drives the
// advance-distance choice; pass a seeded source for deterministic
// tests. A nil rng gets a process-seeded one.
func New(graph *topicgraph.Graph, cfg Config, rng *rand.Rand) (*Teacher, error) {
	if graph == nil {
		return nil, fmt.Errorf("teacher requires a topic graph")
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	est, err := belief.New(cfg.PriorAlpha, cfg.PriorBeta, rng)
	if err != nil {
		return nil, fmt.Errorf("build estimator: %w", err)
	}
	return &Teacher{
		graph:         graph,
		estimator:     est,
		rng:           rng,
		lessonContent: make(map[string]string),
	}, nil
}

// Observe folds one answer event into the belief and appends it to the
// session history.
//
// The correctness-to-observation mapping is the monotonic variant:
// success observes level+1, failure observes the topic's level itself.
// Failure therefore never pushes the belief below the attempted level;
// the estimate drifts upward as harder topics are attempted. The
// mean-reverting variant (failure observes level-1) is intentionally
// not used; mixing the two produces incoherent convergence.
func (t *Teacher) Observe(topic topicgraph.Topic, correct bool) (Record, error) {
	observation := topic.Level
	if correct {
		observation = topic.Level + 1
	}

	if _, _, err := t.estimator.Update([]int{observation}); err != nil {
		// Nothing was applied; history stays consistent with the belief.
		return Record{}, fmt.Errorf("observe %q: %w", topic.Name, err)
	}

	rec := Record{
		Topic:         topic.Name,
		Level:         topic.Level,
		Correct:       correct,
		Observation:   observation,
		ExpectedValue: t.estimator.ExpectedValue(),
		Timestamp:     time.Now(),
	}
	t.history = append(t.history, rec)
	return rec, nil
}

// NextTopic picks the next topic for a student at currentLevel. The
// fallback ladder, in priority order:
//
//  1. advance 1 level for beginners (level <= 1), otherwise 1 or 2 at random
//  2. gather topics in (currentLevel, currentLevel+distance]
//  3. keep only topics accessible at currentLevel
//  4. random pick from the survivors
//  5. else random topic at exactly currentLevel
//  6. else random topic from the first non-empty level, scanning upward
//  7. else report absence (repository is empty)
//
// The ladder never blocks progress for lack of an ideal item; absence
// is returned only when the graph has no topics at all.
func (t *Teacher) NextTopic(currentLevel int) (topicgraph.Topic, bool) {
	distance := 1
	if currentLevel > 1 {
		distance = 1 + t.rng.IntN(2)
	}

	candidates := t.graph.TopicsInRange(currentLevel, distance)

	var accessible []topicgraph.Topic
	for _, c := range candidates {
		if t.graph.IsAccessible(c.Name, currentLevel) {
			accessible = append(accessible, c)
		}
	}

	if topic, ok := t.graph.RandomTopic(accessible); ok {
		return topic, true
	}
	if topic, ok := t.graph.RandomTopicAtLevel(currentLevel); ok {
		return topic, true
	}
	for _, level := range t.graph.AllLevels() {
		if topic, ok := t.graph.RandomTopicAtLevel(level); ok {
			return topic, true
		}
	}
	return topicgraph.Topic{}, false
}

// CurrentBelief returns the posterior snapshot plus history length.
// Pure read, no side effects.
func (t *Teacher) CurrentBelief() Belief {
	p := t.estimator.Posterior()
	return Belief{
		Alpha:         p.Alpha,
		Beta:          p.Beta,
		ExpectedValue: p.ExpectedValue,
		HistoryLength: len(t.history),
	}
}

// SessionSummary aggregates the answer history. The second return is
// false when no observations exist yet, which is distinct from a
// summary with zero accuracy.
func (t *Teacher) SessionSummary() (Summary, bool) {
	if len(t.history) == 0 {
		return Summary{}, false
	}

	correct := 0
	for _, r := range t.history {
		if r.Correct {
			correct++
		}
	}

	return Summary{
		Total:             len(t.history),
		Correct:           correct,
		Accuracy:          float64(correct) / float64(len(t.history)),
		LastExpectedValue: t.estimator.ExpectedValue(),
		Recent:            t.RecentHistory(RecentHistoryLen),
	}, true
}

// History returns a copy of the full answer history.
func (t *Teacher) History() []Record {
	out := make([]Record, len(t.history))
	copy(out, t.history)
	return out
}

// RecentHistory returns a copy of the last n records.
func (t *Teacher) RecentHistory(n int) []Record {
	if n > len(t.history) {
		n = len(t.history)
	}
	out := make([]Record, n)
	copy(out, t.history[len(t.history)-n:])
	return out
}

// Posterior exposes the estimator's posterior snapshot for callers that
// render distributions.
func (t *Teacher) Posterior() belief.Posterior {
	return t.estimator.Posterior()
}

// SampleBelief draws n samples from the posterior for visualization.
func (t *Teacher) SampleBelief(n int) []float64 {
	return t.estimator.Sample(n)
}

// SetLessonContent records generated lesson text for a topic in this
// session's overlay. The shared graph is never touched.
func (t *Teacher) SetLessonContent(topicName, content string) {
	t.lessonContent[topicName] = content
}

// LessonContent returns the session's lesson text for a topic: the
// overlay when present, otherwise the topic's own content.
func (t *Teacher) LessonContent(topic topicgraph.Topic) string {
	if c, ok := t.lessonContent[topic.Name]; ok {
		return c
	}
	return topic.Content
}

// Reset restores the belief to its prior and clears the history and
// lesson overlay. The topic graph is untouched.
func (t *Teacher) Reset() {
	t.estimator.Reset()
	t.history = nil
	t.lessonContent = make(map[string]string)
}
