package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorium/internal/lessons"
	"github.com/abhisek/tutorium/internal/llm"
	"github.com/abhisek/tutorium/internal/server"
	"github.com/abhisek/tutorium/internal/store"
	"github.com/abhisek/tutorium/internal/teacher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tutoring sessions over HTTP",
	Long:  "Starts the REST API with a websocket channel for live belief updates. Sessions are held in memory; events are persisted to the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

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

		// The server runs without an LLM provider; lesson and grading
		// endpoints then answer 503.
		var svc *lessons.Service
		provider, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Lesson generation and answer grading endpoints will be unavailable.")
		} else {
			svc = lessons.NewService(provider, lessons.DefaultConfig())
		}

		srv := server.New(graph, teacher.DefaultConfig(), svc, st.EventRepo())
		fmt.Printf("Listening on %s\n", addr)
		return srv.Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
