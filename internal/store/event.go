package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo over raw SQL.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendObservation(ctx context.Context, data ObservationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO observation_events
			(sequence, session_id, topic, level, correct, observation, expected_value)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Topic, data.Level, boolToInt(data.Correct),
		data.Observation, data.ExpectedValue,
	)
	if err != nil {
		return fmt.Errorf("save observation event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session_events
			(sequence, session_id, action, total_questions, correct_answers, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.Action, data.TotalQuestions,
		data.CorrectAnswers, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
			(sequence, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.Provider, data.Model, data.Purpose, data.InputTokens,
		data.OutputTokens, data.LatencyMs, boolToInt(data.Success), data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save llm request event: %w", err)
	}
	return nil
}

func (r *eventRepo) Observations(ctx context.Context, sessionID string, limit int) ([]ObservationEvent, error) {
	q := `SELECT sequence, timestamp, session_id, topic, level, correct, observation, expected_value
	      FROM observation_events WHERE session_id = ? ORDER BY sequence`
	args := []any{sessionID}
	if limit > 0 {
		// Take the newest events, then restore ascending order below.
		q = `SELECT sequence, timestamp, session_id, topic, level, correct, observation, expected_value
		     FROM (
		       SELECT * FROM observation_events WHERE session_id = ? ORDER BY sequence DESC LIMIT ?
		     ) ORDER BY sequence`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []ObservationEvent
	for rows.Next() {
		var ev ObservationEvent
		var correct int
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.SessionID, &ev.Topic,
			&ev.Level, &correct, &ev.Observation, &ev.ExpectedValue); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		ev.Correct = correct != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) SessionStats(ctx context.Context, sessionID string) (SessionStats, error) {
	var stats SessionStats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM observation_events WHERE session_id = ?`,
		sessionID,
	).Scan(&stats.Total, &stats.Correct)
	if err != nil {
		return SessionStats{}, fmt.Errorf("query session stats: %w", err)
	}
	if stats.Total == 0 {
		return stats, nil
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT expected_value FROM observation_events WHERE session_id = ? ORDER BY sequence DESC LIMIT 1`,
		sessionID,
	).Scan(&stats.LastExpectedValue)
	if err != nil {
		return SessionStats{}, fmt.Errorf("query last expected value: %w", err)
	}
	return stats, nil
}

func (r *eventRepo) Sessions(ctx context.Context, limit int) ([]SessionOverview, error) {
	q := `SELECT session_id, MIN(timestamp), MAX(timestamp), COUNT(*), COALESCE(SUM(correct), 0)
	      FROM observation_events GROUP BY session_id ORDER BY MAX(sequence) DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionOverview
	for rows.Next() {
		var s SessionOverview
		// MIN/MAX strip the column's DATETIME decltype, so the driver
		// hands the values back as text.
		var first, last string
		if err := rows.Scan(&s.SessionID, &first, &last, &s.Total, &s.Correct); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.First, err = parseTimestamp(first); err != nil {
			return nil, fmt.Errorf("parse first timestamp: %w", err)
		}
		if s.Last, err = parseTimestamp(last); err != nil {
			return nil, fmt.Errorf("parse last timestamp: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// parseTimestamp reads the CURRENT_TIMESTAMP text format.
func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, limit int) ([]LLMRequestEvent, error) {
	q := `SELECT sequence, timestamp, provider, model, purpose, input_tokens, output_tokens,
	             latency_ms, success, error_message
	      FROM llm_request_events ORDER BY sequence DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var ev LLMRequestEvent
		var success int
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.Provider, &ev.Model, &ev.Purpose,
			&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &success, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		ev.Success = success != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0),
		        COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		 FROM llm_request_events GROUP BY purpose ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
