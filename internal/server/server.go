// Package server exposes tutoring sessions over a REST API with a
// websocket channel for live belief updates.
package server

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorium/internal/lessons"
	"github.com/abhisek/tutorium/internal/store"
	"github.com/abhisek/tutorium/internal/teacher"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

// Server wires the session manager, lesson service, and websocket hub
// into an HTTP handler.
type Server struct {
	graph    *topicgraph.Graph
	sessions *Manager
	lessons  *lessons.Service
	hub      *Hub
	engine   *gin.Engine
}

// New creates a Server. lessonSvc may be nil; lesson and grading
// endpoints then return 503. events may be nil to disable persistence.
func New(graph *topicgraph.Graph, cfg teacher.Config, lessonSvc *lessons.Service, events store.EventRepo) *Server {
	s := &Server{
		graph:    graph,
		sessions: NewManager(graph, cfg, events),
		lessons:  lessonSvc,
		hub:      NewHub(),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.GET("/topics", s.handleTopics)

	r.POST("/sessions", s.handleCreateSession)
	r.GET("/sessions/:id", s.handleGetSession)
	r.DELETE("/sessions/:id", s.handleDeleteSession)
	r.POST("/sessions/:id/reset", s.handleResetSession)
	r.GET("/sessions/:id/next", s.handleNextTopic)
	r.POST("/sessions/:id/lesson", s.handleLesson)
	r.POST("/sessions/:id/answer", s.handleAnswer)
	r.GET("/sessions/:id/belief", s.handleBelief)
	r.GET("/sessions/:id/progress", s.handleProgress)

	r.GET("/ws/:id", s.handleWebsocket)

	s.engine = r
	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"topics":   s.graph.Len(),
	})
}

func (s *Server) handleTopics(c *gin.Context) {
	levels := s.graph.AllLevels()
	out := make(map[int][]topicgraph.Topic, len(levels))
	for _, level := range levels {
		out[level] = s.graph.TopicsAtLevel(level)
	}
	c.JSON(http.StatusOK, gin.H{"levels": out, "count": s.graph.Len()})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var belief teacher.Belief
	sess.withLock(func(t *teacher.Teacher) {
		belief = t.CurrentBelief()
	})

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt.Format(time.RFC3339),
		"belief":     belief,
	})
}

func (s *Server) lookupSession(c *gin.Context) (*Session, bool) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var belief teacher.Belief
	var recommendation string
	sess.withLock(func(t *teacher.Teacher) {
		belief = t.CurrentBelief()
		recommendation = t.Recommendation()
	})

	c.JSON(http.StatusOK, gin.H{
		"session_id":     sess.ID,
		"created_at":     sess.CreatedAt.Format(time.RFC3339),
		"belief":         belief,
		"current_level":  int(belief.ExpectedValue),
		"recommendation": recommendation,
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !s.sessions.Delete(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	s.hub.CloseSession(id)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) handleResetSession(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	s.sessions.Reset(c.Request.Context(), sess.ID)

	var belief teacher.Belief
	sess.withLock(func(t *teacher.Teacher) {
		belief = t.CurrentBelief()
	})

	s.hub.Broadcast(sess.ID, gin.H{"type": "reset", "belief": belief})
	c.JSON(http.StatusOK, gin.H{"session_id": sess.ID, "belief": belief})
}

// handleNextTopic picks the next topic without generating a lesson.
// Useful for clients that bring their own content, and when no LLM
// provider is configured.
func (s *Server) handleNextTopic(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var topic topicgraph.Topic
	var found bool
	var belief teacher.Belief
	sess.withLock(func(t *teacher.Teacher) {
		belief = t.CurrentBelief()
		topic, found = t.NextTopic(int(belief.ExpectedValue))
	})
	if !found {
		c.JSON(http.StatusConflict, gin.H{"error": "no topics available"})
		return
	}

	sess.mu.Lock()
	sess.topic = topic
	// The lesson slot is stale once a new topic is chosen.
	sess.lesson = nil
	sess.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"topic": topic, "belief": belief})
}

// handleLesson picks the next topic for the session and generates a
// lesson for it.
func (s *Server) handleLesson(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}
	if s.lessons == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lesson generation not configured"})
		return
	}

	var topic topicgraph.Topic
	var found bool
	var level float64
	var recent []teacher.Record
	sess.withLock(func(t *teacher.Teacher) {
		belief := t.CurrentBelief()
		level = belief.ExpectedValue
		topic, found = t.NextTopic(int(belief.ExpectedValue))
		recent = t.RecentHistory(teacher.RecentHistoryLen)
	})
	if !found {
		c.JSON(http.StatusConflict, gin.H{"error": "no topics available"})
		return
	}

	recentNames := make([]string, 0, len(recent))
	for _, r := range recent {
		recentNames = append(recentNames, r.Topic)
	}

	lesson, err := s.lessons.GenerateLesson(c.Request.Context(), lessons.LessonInput{
		Topic:        topic,
		StudentLevel: level,
		RecentTopics: recentNames,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	sess.mu.Lock()
	sess.lesson = lesson
	sess.topic = topic
	sess.teacher.SetLessonContent(topic.Name, lesson.Explanation)
	sess.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"topic": topic,
		"lesson": gin.H{
			"title":       lesson.Title,
			"explanation": lesson.Explanation,
			"example":     lesson.Example,
			"question":    lesson.Question.Text,
			"hint":        lesson.Question.Hint,
		},
	})
}

type answerRequest struct {
	// Answer is graded against the current lesson's question by the
	// LLM. Correct, when set, bypasses grading and records the
	// observation directly.
	Answer  string `json:"answer"`
	Correct *bool  `json:"correct"`
}

func (s *Server) handleAnswer(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess.mu.Lock()
	lesson := sess.lesson
	topic := sess.topic
	sess.mu.Unlock()

	// A direct correctness report only needs a chosen topic; grading a
	// free-text answer also needs the lesson whose question it answers.
	if topic.Name == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no active topic; request a lesson or next topic first"})
		return
	}

	var correct bool
	feedback := ""
	switch {
	case req.Correct != nil:
		correct = *req.Correct
	case req.Answer != "":
		if lesson == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "no active lesson; request a lesson first"})
			return
		}
		if s.lessons == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "answer grading not configured"})
			return
		}
		grade, err := s.lessons.GradeAnswer(c.Request.Context(), lessons.GradeInput{
			Topic:    topic,
			Question: lesson.Question,
			Answer:   req.Answer,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		correct = grade.Correct
		feedback = grade.Feedback
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide answer or correct"})
		return
	}

	var rec teacher.Record
	var obsErr error
	var belief teacher.Belief
	sess.withLock(func(t *teacher.Teacher) {
		rec, obsErr = t.Observe(topic, correct)
		belief = t.CurrentBelief()
	})
	if obsErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": obsErr.Error()})
		return
	}

	// The answered topic and its question are consumed.
	sess.mu.Lock()
	sess.lesson = nil
	sess.topic = topicgraph.Topic{}
	sess.mu.Unlock()

	s.sessions.RecordObservation(c.Request.Context(), sess.ID, rec)
	s.hub.Broadcast(sess.ID, gin.H{
		"type":    "belief_update",
		"belief":  belief,
		"correct": correct,
		"topic":   topic.Name,
	})

	c.JSON(http.StatusOK, gin.H{
		"correct":  correct,
		"feedback": feedback,
		"belief":   belief,
		"record":   rec,
	})
}

func (s *Server) handleBelief(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var belief teacher.Belief
	var samples []float64
	sess.withLock(func(t *teacher.Teacher) {
		belief = t.CurrentBelief()
		samples = t.SampleBelief(200)
	})

	variance := belief.Alpha / (belief.Beta * belief.Beta)
	c.JSON(http.StatusOK, gin.H{
		"belief":   belief,
		"variance": variance,
		"std_dev":  math.Sqrt(variance),
		"samples":  samples,
	})
}

func (s *Server) handleProgress(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	var summary teacher.Summary
	var hasSummary bool
	var recommendation string
	sess.withLock(func(t *teacher.Teacher) {
		summary, hasSummary = t.SessionSummary()
		recommendation = t.Recommendation()
	})

	if !hasSummary {
		c.JSON(http.StatusOK, gin.H{
			"session_id":     sess.ID,
			"summary":        nil,
			"recommendation": recommendation,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":     sess.ID,
		"summary":        summary,
		"recommendation": recommendation,
	})
}

func (s *Server) handleWebsocket(c *gin.Context) {
	sess, ok := s.lookupSession(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.hub.Add(sess.ID, conn)

	// Reader loop: the client sends nothing meaningful, but reading
	// detects disconnects and handles control frames.
	go func() {
		defer s.hub.Remove(sess.ID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
