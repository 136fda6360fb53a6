package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-topic accuracy across all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		attributed, _ := cmd.Flags().GetBool("attributed")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		agg := a.Engine.Aggregate(cmd.Context(), resolveUser(cmd), attributed)
		if agg.Sessions == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}

		fmt.Printf("%d sessions\n\n", agg.Sessions)
		fmt.Printf("%-20s  %8s  %7s  %5s  %8s\n", "Topic", "Sessions", "Correct", "Wrong", "Accuracy")
		fmt.Println(strings.Repeat("─", 56))
		for _, t := range statsTopics(a.Engine.Bank().Topics(), agg) {
			ta := agg.ByTopic[t]
			fmt.Printf("%-20s  %8d  %7d  %5d  %7.0f%%\n", t, ta.Attempts, ta.Correct, ta.Wrong, ta.Accuracy()*100)
		}
		if !attributed {
			fmt.Println("\nMulti-topic sessions count toward every topic they cover; use --attributed for per-question totals.")
		}
		return nil
	},
}

// statsTopics lists the aggregated topics in bank order, followed by topics
// the bank does not know (from sessions played with another bank) sorted by
// name.
func statsTopics(known []bank.Topic, agg progress.Aggregate) []bank.Topic {
	var out, extra []bank.Topic
	for _, t := range known {
		if _, ok := agg.ByTopic[t]; ok {
			out = append(out, t)
		}
	}
	for t := range agg.ByTopic {
		if !slices.Contains(known, t) {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func init() {
	statsCmd.Flags().Bool("attributed", false, "Credit each answered question to its own topic")
}
