package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	var body string
	switch m.phase {
	case phaseLoading:
		body = m.viewLoading()
	case phaseLesson:
		body = m.viewLesson()
	case phaseGrading:
		body = dimStyle.Render("Checking your answer...")
	case phaseFeedback:
		body = m.viewFeedback()
	case phaseSummary:
		body = m.viewSummary()
	}

	frame := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		"",
		body,
		"",
		m.viewFooter(),
	)
	v.SetContent(lipgloss.NewStyle().Padding(1, 2).Render(frame))
	return v
}

func (m Model) viewHeader() string {
	belief := m.teacher.CurrentBelief()
	status := fmt.Sprintf("skill %.2f  (Gamma α=%.1f β=%.1f)  answered %d",
		belief.ExpectedValue, belief.Alpha, belief.Beta, belief.HistoryLength)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Tutorium"),
		beliefStyle.Render(status),
	)
}

func (m Model) viewLoading() string {
	if m.topic.Name == "" {
		return dimStyle.Render("Preparing a lesson...")
	}
	return dimStyle.Render(fmt.Sprintf("Preparing a lesson on %q...", m.topic.Name))
}

func (m Model) viewLesson() string {
	if m.lesson == nil {
		return ""
	}

	width := m.width - 8
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.lesson.Title),
		"",
		wrap.Inherit(bodyStyle).Render(m.lesson.Explanation),
		"",
		wrap.Inherit(dimStyle).Render(m.lesson.Example),
	))

	question := bodyStyle.Render("Q: " + m.lesson.Question.Text)
	hint := hintStyle.Render("hint: " + m.lesson.Question.Hint)

	return lipgloss.JoinVertical(lipgloss.Left,
		card,
		"",
		question,
		hint,
		"",
		m.input.View(),
	)
}

func (m Model) viewFeedback() string {
	if m.err != nil {
		return wrongStyle.Render("Something went wrong: ") + bodyStyle.Render(m.err.Error())
	}
	if m.grade == nil {
		return ""
	}

	verdict := correctStyle.Render("Correct!")
	if !m.grade.Correct {
		verdict = wrongStyle.Render("Not quite.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		verdict,
		bodyStyle.Render(m.grade.Feedback),
	)
}

func (m Model) viewSummary() string {
	summary, ok := m.teacher.SessionSummary()
	if !ok {
		return dimStyle.Render("No questions answered this session.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Questions: %d   Correct: %d   Accuracy: %.0f%%\n",
		summary.Total, summary.Correct, summary.Accuracy*100))
	b.WriteString(fmt.Sprintf("Estimated skill: %.2f\n\n", summary.LastExpectedValue))
	for _, r := range summary.Recent {
		mark := correctStyle.Render("✓")
		if !r.Correct {
			mark = wrongStyle.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s %s (level %d)\n", mark, r.Topic, r.Level))
	}
	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(m.teacher.Recommendation()))

	return cardStyle.Render(
		titleStyle.Render("Session summary") + "\n\n" + b.String())
}

func (m Model) viewFooter() string {
	var hints []string
	switch m.phase {
	case phaseLesson:
		hints = []string{"Enter: submit", "Esc: finish", "Ctrl+C: quit"}
	case phaseFeedback:
		hints = []string{"Enter: next question", "Esc: finish"}
	case phaseSummary:
		hints = []string{"Enter: exit"}
	default:
		hints = []string{"Esc: finish", "Ctrl+C: quit"}
	}
	return hintStyle.Render(strings.Join(hints, "  ·  "))
}
