package store

import (
	"context"
	"time"
)

// ObservationEventData is one answer event as persisted.
type ObservationEventData struct {
	SessionID     string
	Topic         string
	Level         int
	Correct       bool
	Observation   int
	ExpectedValue float64
}

// ObservationEvent is a persisted observation with its assigned
// sequence and timestamp.
type ObservationEvent struct {
	Sequence  int64
	Timestamp time.Time
	ObservationEventData
}

// SessionEventData records a session lifecycle action
// ("start", "finish", "reset").
type SessionEventData struct {
	SessionID      string
	Action         string
	TotalQuestions int
	CorrectAnswers int
	DurationSecs   int
}

// LLMRequestEventData captures one LLM API call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a persisted LLM request with its assigned
// sequence and timestamp.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM request events per purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// SessionStats aggregates the observation events of one session.
type SessionStats struct {
	Total             int
	Correct           int
	LastExpectedValue float64
}

// SessionOverview is one session's aggregate row for listings.
type SessionOverview struct {
	SessionID string
	First     time.Time
	Last      time.Time
	SessionStats
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendObservation records one answer event.
	AppendObservation(ctx context.Context, data ObservationEventData) error

	// AppendSession records a session lifecycle event.
	AppendSession(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// Observations returns a session's observation events in sequence
	// order, newest last. limit 0 means unlimited.
	Observations(ctx context.Context, sessionID string, limit int) ([]ObservationEvent, error)

	// SessionStats aggregates a session's observation events. Returns a
	// zero SessionStats when the session has no events.
	SessionStats(ctx context.Context, sessionID string) (SessionStats, error)

	// Sessions lists per-session aggregates, most recent first. limit 0
	// means unlimited.
	Sessions(ctx context.Context, limit int) ([]SessionOverview, error)

	// QueryLLMEvents returns LLM request events, newest first. limit 0
	// means unlimited.
	QueryLLMEvents(ctx context.Context, limit int) ([]LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

// SnapshotData captures the resumable learner state.
type SnapshotData struct {
	Version       int     `json:"version"`
	SessionID     string  `json:"session_id"`
	Alpha         float64 `json:"alpha"`
	Beta          float64 `json:"beta"`
	CurrentLevel  int     `json:"current_level"`
	HistoryLength int     `json:"history_length"`
}

// Snapshot is a point-in-time capture of learner state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, data SnapshotData) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
