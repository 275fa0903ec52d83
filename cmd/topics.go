package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the curriculum topics by level",
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := loadGraph(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("%d topics across %d levels\n\n", graph.Len(), len(graph.AllLevels()))
		for _, level := range graph.AllLevels() {
			fmt.Printf("Level %d\n", level)
			fmt.Println(strings.Repeat("─", 48))
			for _, t := range graph.TopicsAtLevel(level) {
				line := fmt.Sprintf("  %-34s  difficulty %.2f", t.Name, t.Difficulty)
				if len(t.Prerequisites) > 0 {
					line += "  requires " + strings.Join(t.Prerequisites, ", ")
				}
				fmt.Println(line)
			}
			fmt.Println()
		}
		return nil
	},
}
