package lessons

import "github.com/abhisek/tutorium/internal/topicgraph"

// Lesson is an LLM-generated lesson for a single topic, ending in a
// question for the student to answer.
type Lesson struct {
	TopicName   string
	Title       string
	Explanation string
	Example     string
	Question    Question
}

// Question is the check-for-understanding at the end of a lesson.
type Question struct {
	Text   string
	Answer string
	Hint   string
}

// LessonInput holds the context needed to generate a lesson.
type LessonInput struct {
	Topic topicgraph.Topic

	// StudentLevel is the current posterior mean of the student's
	// ability, used to pitch the explanation.
	StudentLevel float64

	// RecentTopics names the topics covered earlier in the session so
	// the lesson can build on them.
	RecentTopics []string
}

// Grade is the result of grading a free-text answer.
type Grade struct {
	Correct  bool
	Feedback string
}

// GradeInput holds the context needed to grade an answer.
type GradeInput struct {
	Topic    topicgraph.Topic
	Question Question
	Answer   string
}
