package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorium/internal/store"
	"github.com/abhisek/tutorium/internal/teacher"
)

var statsCmd = &cobra.Command{
	Use:   "stats [session-id]",
	Short: "Show session statistics",
	Long:  "Without an argument, lists recent sessions. With a session ID, shows that session's answer history and final belief.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		if len(args) == 1 {
			return printSessionDetail(ctx, s, args[0])
		}
		return printSessionList(ctx, cmd, s)
	},
}

func printSessionList(ctx context.Context, cmd *cobra.Command, s *store.Store) error {
	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := s.EventRepo().Sessions(ctx, limit)
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %6s  %7s  %9s\n",
		"Session", "Last activity", "Asked", "Correct", "Accuracy")
	fmt.Println(strings.Repeat("─", 88))
	for _, sess := range sessions {
		accuracy := 0.0
		if sess.Total > 0 {
			accuracy = float64(sess.Correct) / float64(sess.Total) * 100
		}
		fmt.Printf("%-36s  %-19s  %6d  %7d  %8.0f%%\n",
			sess.SessionID,
			sess.Last.Local().Format("2006-01-02 15:04:05"),
			sess.Total, sess.Correct, accuracy)
	}
	return nil
}

func printSessionDetail(ctx context.Context, s *store.Store, sessionID string) error {
	stats, err := s.EventRepo().SessionStats(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("query session stats: %w", err)
	}
	if stats.Total == 0 {
		fmt.Printf("No events for session %s.\n", sessionID)
		return nil
	}

	events, err := s.EventRepo().Observations(ctx, sessionID, 0)
	if err != nil {
		return fmt.Errorf("query observations: %w", err)
	}

	fmt.Printf("Session %s\n\n", sessionID)
	fmt.Printf("%-19s  %-32s  %-5s  %-7s  %-8s\n", "Time", "Topic", "Lvl", "Answer", "E[skill]")
	fmt.Println(strings.Repeat("─", 80))
	for _, e := range events {
		answer := "wrong"
		if e.Correct {
			answer = "right"
		}
		fmt.Printf("%-19s  %-32s  %-5d  %-7s  %.3f\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Topic, e.Level, answer, e.ExpectedValue)
	}

	fmt.Printf("\nAnswered %d, correct %d (%.0f%%)\n",
		stats.Total, stats.Correct, float64(stats.Correct)/float64(stats.Total)*100)
	fmt.Printf("Final estimate %.3f\n", stats.LastExpectedValue)
	fmt.Println(teacher.BandFor(stats.LastExpectedValue).Text())
	return nil
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to list")
}
