package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorium/internal/store"
	"github.com/abhisek/tutorium/internal/topicgraph"
)

var rootCmd = &cobra.Command{
	Use:   "tutorium",
	Short: "Adaptive AI math tutor",
	Long:  "Tutorium — an adaptive tutor that models student skill with a Bayesian belief and picks each next topic to match.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TUTORIUM_DB env var)")
	rootCmd.PersistentFlags().String("curriculum", "", "Path to a curriculum YAML file (default: built-in algebra curriculum)")

	rootCmd.Flags().Int("questions", 0, "End the session after this many questions (0 = unlimited)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then TUTORIUM_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadGraph builds the topic graph from --curriculum or the built-in
// curriculum.
func loadGraph(cmd *cobra.Command) (*topicgraph.Graph, error) {
	if path, _ := cmd.Flags().GetString("curriculum"); path != "" {
		topics, err := topicgraph.LoadCurriculum(path)
		if err != nil {
			return nil, err
		}
		graph, err := topicgraph.New(topics, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid curriculum %s: %w", path, err)
		}
		return graph, nil
	}
	return topicgraph.New(topicgraph.DefaultCurriculum(), nil)
}
