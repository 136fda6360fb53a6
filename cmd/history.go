package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/bank"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		records := a.Engine.History(cmd.Context(), resolveUser(cmd))
		if limit > 0 && len(records) > limit {
			records = records[:limit]
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}

		fmt.Printf("%-16s  %-9s  %-6s  %7s  %6s  %-4s  %s\n",
			"Started", "Mode", "Level", "Score", "Time", "Pass", "Topics")
		fmt.Println(strings.Repeat("─", 90))
		for _, r := range records {
			pass := "✗"
			if r.Passed {
				pass = "✓"
			}
			fmt.Printf("%-16s  %-9s  %-6s  %3d/%-3d  %5ds  %-4s  %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				r.Mode,
				r.Difficulty,
				r.Correct, r.QuestionCount,
				r.DurationSec,
				pass,
				truncate(joinTopics(r.Topics), 40),
			)
		}
		return nil
	},
}

func joinTopics(topics []bank.Topic) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 for all)")
	historyCmd.Flags().Bool("json", false, "Print records as JSON")
}
