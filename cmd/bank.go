package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/sampler"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Browse the question bank",
}

var bankTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with question counts per difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Bank %s: %d questions\n\n", b.Version(), b.Len())
		fmt.Printf("%-20s  %6s  %6s  %6s  %6s\n", "Topic", "Easy", "Medium", "Hard", "Total")
		fmt.Println(strings.Repeat("─", 52))
		for _, t := range b.Topics() {
			c := b.Count(t)
			fmt.Printf("%-20s  %6d  %6d  %6d  %6d\n",
				t, c[bank.Easy], c[bank.Medium], c[bank.Hard], c[bank.Easy]+c[bank.Medium]+c[bank.Hard])
		}
		return nil
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		b, err := loadBank(cmd)
		if err != nil {
			return err
		}
		f, err := sampler.ParseFilter(b, topics, difficulty)
		if err != nil {
			return err
		}

		pool := sampler.New(b, nil).Pool(f)
		if len(pool) == 0 {
			fmt.Println("No questions match.")
			return nil
		}
		for _, it := range pool {
			fmt.Printf("%-10s  %-20s  %-6s  %s\n", it.ID, it.Topic, it.Difficulty, truncate(it.Prompt, 60))
		}
		return nil
	},
}

var bankShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a question with its answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank(cmd)
		if err != nil {
			return err
		}
		it, ok := b.Get(args[0])
		if !ok {
			return fmt.Errorf("question %q not found", args[0])
		}
		printItem(sampler.Plain(it))
		if it.Explanation != "" {
			fmt.Printf("\n%s\n", it.Explanation)
		}
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a bank document against the schema and item rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		b, err := bank.Load(f)
		if err != nil {
			return err
		}
		fmt.Printf("OK: version %s, %d topics, %d questions\n", b.Version(), len(b.Topics()), b.Len())
		return nil
	},
}

// printItem writes a question with its options, marking the correct one.
func printItem(it sampler.SampledItem) {
	fmt.Printf("[%s] %s · %s\n", it.ID, it.Topic, it.Difficulty)
	fmt.Println(it.Prompt)
	for i, opt := range it.Options {
		mark := " "
		if it.IsCorrect(i) {
			mark = "*"
		}
		fmt.Printf(" %s %c) %s\n", mark, 'A'+i, opt)
	}
}

func init() {
	addFilterFlags(bankListCmd)

	bankCmd.AddCommand(bankTopicsCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankShowCmd)
	bankCmd.AddCommand(bankValidateCmd)
}
