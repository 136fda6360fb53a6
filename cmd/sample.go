package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/engine"
	"github.com/abhisek/aptiz/internal/sampler"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw and print randomized questions without starting a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		n, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetUint64("seed")

		b, err := loadBank(cmd)
		if err != nil {
			return err
		}
		f, err := sampler.ParseFilter(b, topics, difficulty)
		if err != nil {
			return err
		}
		numeric, err := engine.NumericTopicsFromEnv(b)
		if err != nil {
			return err
		}
		if numeric == nil {
			numeric = bank.NumericTopics()
		}

		rng := sampler.NewRand()
		if cmd.Flags().Changed("seed") {
			rng = rand.New(rand.NewPCG(seed, seed))
		}
		items := sampler.NewRandomizer(rng, numeric...).RandomizeAll(sampler.New(b, rng).Sample(f, n))
		if len(items) == 0 {
			fmt.Println("No questions match.")
			return nil
		}
		for i, it := range items {
			if i > 0 {
				fmt.Println()
			}
			printItem(it)
			if it.Perturbed {
				fmt.Printf("   (numbers scaled by %s)\n", it.Factor)
			}
		}
		return nil
	},
}

func init() {
	addFilterFlags(sampleCmd)
	sampleCmd.Flags().IntP("count", "n", 5, "Number of questions to draw")
	sampleCmd.Flags().Uint64("seed", 0, "Seed for a reproducible draw")
}
