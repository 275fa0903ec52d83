package lessons

import (
	"fmt"
	"strings"
)

const lessonSystemPrompt = `You are a patient, encouraging math tutor. You teach one topic at a time with a short lesson ending in a single question.`

func buildLessonUserMessage(input LessonInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic.Name))
	b.WriteString(fmt.Sprintf("Topic level: %d\n", input.Topic.Level))
	b.WriteString(fmt.Sprintf("Topic difficulty: %.2f\n", input.Topic.Difficulty))
	b.WriteString(fmt.Sprintf("Estimated student level: %.2f\n", input.StudentLevel))

	if input.Topic.Content != "" {
		b.WriteString(fmt.Sprintf("\nReference material:\n%s\n", input.Topic.Content))
	}

	if len(input.RecentTopics) > 0 {
		b.WriteString("\nTopics covered earlier this session:\n")
		for _, t := range input.RecentTopics {
			b.WriteString(fmt.Sprintf("- %s\n", t))
		}
	}

	b.WriteString(`
Instructions:
Create a short lesson that:
1. Explains the topic clearly in 4-6 sentences, pitched to the student's estimated level. Build on earlier topics where it helps.
2. Shows one complete worked example with numbered steps.
3. Ends with one question the student can solve using the explanation and worked example. The question must have a single correct answer.
4. Includes a one-sentence hint that nudges without giving the answer away.
5. Use plain ASCII text for all math. No LaTeX, no Unicode symbols. Use / for fractions, * for multiplication, ^ for powers.`)

	return b.String()
}

const gradingSystemPrompt = `You are grading a math student's free-text answer. Be strict about correctness but generous about formatting: equivalent forms of the same value are correct.`

func buildGradingUserMessage(input GradeInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic.Name))
	b.WriteString(fmt.Sprintf("Question: %s\n", input.Question.Text))
	b.WriteString(fmt.Sprintf("Expected answer: %s\n", input.Question.Answer))
	b.WriteString(fmt.Sprintf("Student's answer: %s\n", input.Answer))

	b.WriteString(`
Instructions:
Decide whether the student's answer is correct:
- Accept mathematically equivalent forms (e.g. 0.5, 1/2, .5).
- Ignore surrounding words like "the answer is" or units the question did not ask for.
- An answer that contains the right value plus wrong extra claims is incorrect.
Write 1-3 sentences of feedback. If correct, briefly reinforce the idea. If incorrect, point at the mistake without solving the whole problem for the student.`)

	return b.String()
}
