package topicgraph

import (
	"fmt"
	"strings"
)

// validateTopics performs all structural checks on a topic set.
// Returns a combined error describing every problem found, or nil.
func validateTopics(topics []Topic) error {
	var errs []string

	names := make(map[string]bool, len(topics))
	for _, t := range topics {
		if t.Name == "" {
			errs = append(errs, "topic with empty name")
			continue
		}
		if names[t.Name] {
			errs = append(errs, fmt.Sprintf("duplicate topic name: %q", t.Name))
		}
		names[t.Name] = true

		if t.Level < 0 {
			errs = append(errs, fmt.Sprintf("topic %q: level must be >= 0, got %d", t.Name, t.Level))
		}
		if t.Difficulty < 0 || t.Difficulty > 1 {
			errs = append(errs, fmt.Sprintf("topic %q: difficulty must be in [0, 1], got %v", t.Name, t.Difficulty))
		}
	}

	// Referential integrity: every prerequisite must name a real topic.
	for _, t := range topics {
		for _, prereq := range t.Prerequisites {
			if !names[prereq] {
				errs = append(errs, fmt.Sprintf("topic %q references nonexistent prerequisite %q", t.Name, prereq))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("topic graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
