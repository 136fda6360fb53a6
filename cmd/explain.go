package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/explain"
	"github.com/abhisek/aptiz/internal/sampler"
)

var explainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Explain the answer to a bank question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, ex, done, err := explainerFor(cmd, args[0])
		if err != nil {
			return err
		}
		defer done()

		text, err := ex.Explain(cmd.Context(), item)
		if err != nil {
			return err
		}
		printItem(item)
		fmt.Printf("\n%s\n", text)
		return nil
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <id>",
	Short: "Generate new questions like a bank question (requires an LLM provider)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")

		item, ex, done, err := explainerFor(cmd, args[0])
		if err != nil {
			return err
		}
		defer done()

		questions, err := ex.Similar(cmd.Context(), item, n)
		if err != nil {
			if errors.Is(err, explain.ErrUnsupported) {
				return fmt.Errorf("similar questions need an LLM provider (set APTIZ_LLM_PROVIDER)")
			}
			return err
		}
		for i, q := range questions {
			fmt.Printf("%d. %s\n\n", i+1, q)
		}
		return nil
	},
}

// explainerFor looks up id and returns it with the best available
// explainer. done releases the opened store.
func explainerFor(cmd *cobra.Command, id string) (sampler.SampledItem, explain.Explainer, func(), error) {
	b, err := loadBank(cmd)
	if err != nil {
		return sampler.SampledItem{}, nil, nil, err
	}
	it, ok := b.Get(id)
	if !ok {
		return sampler.SampledItem{}, nil, nil, fmt.Errorf("question %q not found", id)
	}

	a, err := openApp(cmd)
	if err != nil {
		return sampler.SampledItem{}, nil, nil, err
	}
	ex, err := a.Explainer(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
	}
	return sampler.Plain(it), ex, func() { a.Close() }, nil
}

func init() {
	similarCmd.Flags().IntP("count", "n", 3, "Number of questions to generate")
}
