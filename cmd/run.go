package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorium/internal/student"
	"github.com/abhisek/tutorium/internal/teacher"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated tutoring session",
	Long:  "Simulates a student with a fixed true skill level answering adaptively chosen questions, and prints how the belief converges.",
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, _ := cmd.Flags().GetInt("questions")
		trueLevel, _ := cmd.Flags().GetFloat64("level")
		variance, _ := cmd.Flags().GetFloat64("variance")
		seed, _ := cmd.Flags().GetUint64("seed")

		graph, err := loadGraph(cmd)
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewPCG(seed, seed))
		tch, err := teacher.New(graph, teacher.DefaultConfig(), rng)
		if err != nil {
			return fmt.Errorf("build teacher: %w", err)
		}
		stu := student.New(trueLevel, variance, rng)

		fmt.Printf("Simulating %d questions (student true level %.1f, variance %.2f, seed %d)\n\n",
			questions, trueLevel, variance, seed)
		fmt.Printf("%-4s  %-32s  %-5s  %-7s  %-8s\n", "#", "Topic", "Lvl", "Answer", "E[skill]")

		for i := range questions {
			belief := tch.CurrentBelief()
			topic, ok := tch.NextTopic(int(belief.ExpectedValue))
			if !ok {
				return fmt.Errorf("no topics available in the curriculum")
			}

			correct := stu.Answer(topic)
			rec, err := tch.Observe(topic, correct)
			if err != nil {
				return fmt.Errorf("observe answer: %w", err)
			}

			answer := "wrong"
			if correct {
				answer = "right"
			}
			fmt.Printf("%-4d  %-32s  %-5d  %-7s  %.3f\n",
				i+1, topic.Name, topic.Level, answer, rec.ExpectedValue)
		}

		summary, ok := tch.SessionSummary()
		if !ok {
			return nil
		}

		fmt.Printf("\nAnswered %d, correct %d (%.0f%%)\n",
			summary.Total, summary.Correct, summary.Accuracy*100)
		fmt.Printf("Final estimate %.3f against true level %.1f\n",
			summary.LastExpectedValue, stu.TrueLevel())
		fmt.Println(tch.Recommendation())
		return nil
	},
}

func init() {
	runCmd.Flags().Int("questions", 20, "Number of questions to simulate")
	runCmd.Flags().Float64("level", 2.0, "True skill level of the simulated student")
	runCmd.Flags().Float64("variance", 0.1, "Answer noise of the simulated student")
	runCmd.Flags().Uint64("seed", 1, "Random seed")
}
