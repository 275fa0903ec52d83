// Package topicgraph organizes learning topics into difficulty levels
// and answers the lookups the adaptive policy needs: by level, by name,
// by level range, and uniform random picks within a level.
package topicgraph

// Topic is an immutable learning item. Prerequisites are informational
// metadata; accessibility is decided by the coarse level comparison in
// Graph.IsAccessible, not by walking the prerequisite names.
type Topic struct {
	Name          string   `yaml:"name" json:"name"`
	Level         int      `yaml:"level" json:"level"`
	Difficulty    float64  `yaml:"difficulty" json:"difficulty"`
	Prerequisites []string `yaml:"prerequisites" json:"prerequisites"`
	Content       string   `yaml:"content" json:"content"`
}
