package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorium/internal/lessons"
	"github.com/abhisek/tutorium/internal/llm"
	"github.com/abhisek/tutorium/internal/store"
	"github.com/abhisek/tutorium/internal/teacher"
	"github.com/abhisek/tutorium/internal/tui"
)

// runSession opens the store, builds dependencies, and launches the
// interactive TUI session.
func runSession(cmd *cobra.Command) error {
	ctx := cmd.Context()

	graph, err := loadGraph(cmd)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Set TUTORIUM_LLM_PROVIDER and an API key, or use `tutorium run` for the LLM-free simulation.")
		return err
	}

	tch, err := teacher.New(graph, teacher.DefaultConfig(), nil)
	if err != nil {
		return fmt.Errorf("build teacher: %w", err)
	}

	sessionID := uuid.NewString()
	events := st.EventRepo()
	snapshots := st.SnapshotRepo()
	_ = events.AppendSession(ctx, store.SessionEventData{SessionID: sessionID, Action: "start"})

	recorder := func(rec teacher.Record) {
		_ = events.AppendObservation(ctx, store.ObservationEventData{
			SessionID:     sessionID,
			Topic:         rec.Topic,
			Level:         rec.Level,
			Correct:       rec.Correct,
			Observation:   rec.Observation,
			ExpectedValue: rec.ExpectedValue,
		})
	}

	maxQuestions, _ := cmd.Flags().GetInt("questions")
	svc := lessons.NewService(provider, lessons.DefaultConfig())
	runErr := tui.Run(tch, svc, maxQuestions, recorder)

	belief := tch.CurrentBelief()
	_ = snapshots.Save(ctx, store.SnapshotData{
		Version:       1,
		SessionID:     sessionID,
		Alpha:         belief.Alpha,
		Beta:          belief.Beta,
		CurrentLevel:  int(belief.ExpectedValue),
		HistoryLength: belief.HistoryLength,
	})
	_ = snapshots.Prune(ctx, 10)

	if summary, ok := tch.SessionSummary(); ok {
		_ = events.AppendSession(ctx, store.SessionEventData{
			SessionID:      sessionID,
			Action:         "finish",
			TotalQuestions: summary.Total,
			CorrectAnswers: summary.Correct,
		})
	}

	return runErr
}
