package server

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tutorium/internal/lessons"
	"github.com/abhisek/tutorium/internal/store"
	"github.com/abhisek/tutorium/internal/teacher"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

// Session is one learner's server-side state. Each session owns an
// independent teacher; the topic graph is shared.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	teacher *teacher.Teacher

	// lesson holds the most recently generated lesson, whose question
	// the next answer submission is graded against.
	lesson *lessons.Lesson
	topic  topicgraph.Topic
}

// withLock runs fn while holding the session lock.
func (s *Session) withLock(fn func(t *teacher.Teacher)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.teacher)
}

// Manager owns the session table.
type Manager struct {
	graph  *topicgraph.Graph
	cfg    teacher.Config
	events store.EventRepo

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager over a shared topic graph.
// events may be nil to disable persistence.
func NewManager(graph *topicgraph.Graph, cfg teacher.Config, events store.EventRepo) *Manager {
	return &Manager{
		graph:    graph,
		cfg:      cfg,
		events:   events,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with a fresh teacher.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	t, err := teacher.New(m.graph, m.cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		teacher:   t,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logSessionEvent(ctx, s.ID, "start", nil)
	return s, nil
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session. Returns false if it did not exist.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.mu.Lock()
		summary, hasSummary := s.teacher.SessionSummary()
		s.mu.Unlock()
		if hasSummary {
			m.logSessionEvent(ctx, id, "finish", &summary)
		}
	}
	return ok
}

// Reset restores a session's belief to the prior.
func (m *Manager) Reset(ctx context.Context, id string) bool {
	s, ok := m.Get(id)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.teacher.Reset()
	s.lesson = nil
	s.topic = topicgraph.Topic{}
	s.mu.Unlock()

	m.logSessionEvent(ctx, id, "reset", nil)
	return true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RecordObservation persists one answer event for a session. A nil
// event repo makes this a no-op.
func (m *Manager) RecordObservation(ctx context.Context, sessionID string, rec teacher.Record) {
	if m.events == nil {
		return
	}
	data := store.ObservationEventData{
		SessionID:     sessionID,
		Topic:         rec.Topic,
		Level:         rec.Level,
		Correct:       rec.Correct,
		Observation:   rec.Observation,
		ExpectedValue: rec.ExpectedValue,
	}
	// Persistence failures must not break the answer flow.
	_ = m.events.AppendObservation(ctx, data)
}

func (m *Manager) logSessionEvent(ctx context.Context, sessionID, action string, summary *teacher.Summary) {
	if m.events == nil {
		return
	}
	data := store.SessionEventData{
		SessionID: sessionID,
		Action:    action,
	}
	if summary != nil {
		data.TotalQuestions = summary.Total
		data.CorrectAnswers = summary.Correct
	}
	_ = m.events.AppendSession(ctx, data)
}
