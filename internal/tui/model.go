// Package tui is the interactive terminal session: lessons are
// generated in the background, answers are graded, and the belief
// updates after every question.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tutorium/internal/lessons"
	"github.com/abhisek/tutorium/internal/teacher"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

const lessonPollInterval = 150 * time.Millisecond

type phase int

const (
	phaseLoading phase = iota
	phaseLesson
	phaseGrading
	phaseFeedback
	phaseSummary
)

type startMsg struct{}

type pollMsg struct{}

type gradeMsg struct {
	grade *lessons.Grade
	err   error
}

// Model drives one tutoring session in the terminal.
type Model struct {
	teacher *teacher.Teacher
	svc     *lessons.Service

	phase  phase
	topic  topicgraph.Topic
	lesson *lessons.Lesson
	grade  *lessons.Grade
	err    error

	input        textinput.Model
	questionsRun int
	maxQuestions int

	// recorder receives every graded answer, for persistence. May be nil.
	recorder func(teacher.Record)

	width  int
	height int
}

// New creates a session model. maxQuestions <= 0 means unlimited.
func New(t *teacher.Teacher, svc *lessons.Service, maxQuestions int) Model {
	ti := textinput.New()
	ti.Placeholder = "your answer"
	ti.CharLimit = 120

	return Model{
		teacher:      t,
		svc:          svc,
		input:        ti,
		maxQuestions: maxQuestions,
		phase:        phaseLoading,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return startMsg{} }, pollTick())
}

func pollTick() tea.Cmd {
	return tea.Tick(lessonPollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// requestNextLesson picks the next topic from the current belief and
// kicks off background generation.
func (m *Model) requestNextLesson() tea.Cmd {
	belief := m.teacher.CurrentBelief()
	topic, ok := m.teacher.NextTopic(int(belief.ExpectedValue))
	if !ok {
		m.phase = phaseSummary
		return nil
	}
	m.topic = topic

	recent := m.teacher.RecentHistory(teacher.RecentHistoryLen)
	names := make([]string, 0, len(recent))
	for _, r := range recent {
		names = append(names, r.Topic)
	}

	m.svc.RequestLesson(context.Background(), lessons.LessonInput{
		Topic:        topic,
		StudentLevel: belief.ExpectedValue,
		RecentTopics: names,
	})
	return nil
}

func (m *Model) submitAnswer() tea.Cmd {
	answer := m.input.Value()
	if answer == "" || m.lesson == nil {
		return nil
	}
	m.phase = phaseGrading

	input := lessons.GradeInput{
		Topic:    m.topic,
		Question: m.lesson.Question,
		Answer:   answer,
	}
	svc := m.svc
	return func() tea.Msg {
		grade, err := svc.GradeAnswer(context.Background(), input)
		return gradeMsg{grade: grade, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case startMsg:
		return m, m.requestNextLesson()

	case pollMsg:
		if m.phase == phaseLoading {
			if lesson, ok := m.svc.ConsumeLesson(); ok {
				m.lesson = lesson
				m.teacher.SetLessonContent(m.topic.Name, lesson.Explanation)
				m.input.Reset()
				m.phase = phaseLesson
				return m, tea.Batch(m.input.Focus(), pollTick())
			}
		}
		return m, pollTick()

	case gradeMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseFeedback
			return m, nil
		}
		m.grade = msg.grade
		m.err = nil
		rec, err := m.teacher.Observe(m.topic, msg.grade.Correct)
		if err != nil {
			m.err = err
		} else if m.recorder != nil {
			m.recorder(rec)
		}
		m.questionsRun++
		m.phase = phaseFeedback
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.phase == phaseLesson {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.phase == phaseSummary {
			return m, tea.Quit
		}
		m.phase = phaseSummary
		return m, nil
	}

	switch m.phase {
	case phaseLesson:
		if msg.String() == "enter" {
			return m, m.submitAnswer()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseFeedback:
		if msg.String() == "enter" {
			if m.maxQuestions > 0 && m.questionsRun >= m.maxQuestions {
				m.phase = phaseSummary
				return m, nil
			}
			m.grade = nil
			m.lesson = nil
			m.phase = phaseLoading
			return m, m.requestNextLesson()
		}

	case phaseSummary:
		if msg.String() == "enter" || msg.String() == "q" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// WithRecorder returns a copy of the model that reports every graded
// answer to fn.
func (m Model) WithRecorder(fn func(teacher.Record)) Model {
	m.recorder = fn
	return m
}

// Run starts the interactive session and blocks until it ends.
// recorder may be nil.
func Run(t *teacher.Teacher, svc *lessons.Service, maxQuestions int, recorder func(teacher.Record)) error {
	p := tea.NewProgram(New(t, svc, maxQuestions).WithRecorder(recorder))
	_, err := p.Run()
	return err
}
