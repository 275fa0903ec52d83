package topicgraph

import (
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
)

// Graph holds the complete topic set with by-level and by-name indices.
// It is read-only after construction and safe to share across sessions;
// the random source is guarded so concurrent picks don't race.
type Graph struct {
	byLevel map[int][]Topic
	byName  map[string]Topic
	levels  []int // ascending

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a Graph from the given topics, validating the set first
// (duplicate names, dangling prerequisites, out-of-range fields). The
// rng drives random topic selection; pass a seeded source for
// deterministic tests. A nil rng gets a process-seeded one.
func New(topics []Topic, rng *rand.Rand) (*Graph, error) {
	if err := validateTopics(topics); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Graph{
		byLevel: make(map[int][]Topic),
		byName:  make(map[string]Topic, len(topics)),
		rng:     rng,
	}
	for _, t := range topics {
		g.byLevel[t.Level] = append(g.byLevel[t.Level], t)
		g.byName[t.Name] = t
	}
	for level := range g.byLevel {
		g.levels = append(g.levels, level)
	}
	sort.Ints(g.levels)
	return g, nil
}

// TopicsAtLevel returns all topics at a level in insertion order.
// Unknown levels yield an empty slice, not an error.
func (g *Graph) TopicsAtLevel(level int) []Topic {
	return slices.Clone(g.byLevel[level])
}

// AllLevels returns the populated levels in ascending order.
func (g *Graph) AllLevels() []int {
	return slices.Clone(g.levels)
}

// MaxLevel returns the highest populated level, or -1 for an empty graph.
func (g *Graph) MaxLevel() int {
	if len(g.levels) == 0 {
		return -1
	}
	return g.levels[len(g.levels)-1]
}

// Len returns the total number of topics.
func (g *Graph) Len() int {
	return len(g.byName)
}

// RandomTopicAtLevel picks one topic uniformly at random from a level.
// Each call is independent; repeated visits to the same level may repeat
// topics. Returns false if the level is empty.
func (g *Graph) RandomTopicAtLevel(level int) (Topic, bool) {
	topics := g.byLevel[level]
	if len(topics) == 0 {
		return Topic{}, false
	}
	return topics[g.intN(len(topics))], true
}

// RandomTopic picks one topic uniformly at random from a slice. Returns
// false for an empty slice.
func (g *Graph) RandomTopic(topics []Topic) (Topic, bool) {
	if len(topics) == 0 {
		return Topic{}, false
	}
	return topics[g.intN(len(topics))], true
}

// TopicsInRange returns every topic in levels (fromLevel, fromLevel+maxAhead],
// capped at the highest populated level, flattened in level-ascending order.
func (g *Graph) TopicsInRange(fromLevel, maxAhead int) []Topic {
	max := g.MaxLevel()
	var out []Topic
	for level := fromLevel + 1; level <= fromLevel+maxAhead && level <= max; level++ {
		out = append(out, g.byLevel[level]...)
	}
	return out
}

// TopicByName looks up a topic by its unique name.
func (g *Graph) TopicByName(name string) (Topic, bool) {
	t, ok := g.byName[name]
	return t, ok
}

// DifficultyOf returns a topic's difficulty, or 0.0 when the name is
// unknown. Absence is treated as "no information", not an error;
// callers that need to distinguish the two should use TopicByName.
func (g *Graph) DifficultyOf(name string) float64 {
	return g.byName[name].Difficulty
}

// IsAccessible reports whether the named topic is within reach of a
// student at the given level. This is the coarse check: the topic's
// level must not exceed the student's. The prerequisite list does not
// participate. Unknown names are never accessible.
func (g *Graph) IsAccessible(name string, studentLevel int) bool {
	t, ok := g.byName[name]
	if !ok {
		return false
	}
	return t.Level <= studentLevel
}

func (g *Graph) intN(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}
