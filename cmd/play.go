package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/app"
	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/sampler"
	"github.com/abhisek/aptiz/internal/session"
	"github.com/abhisek/aptiz/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session or a challenge",
}

type practiceFlags struct {
	tier       string
	topics     []string
	difficulty string
}

var playPracticeCmd = &cobra.Command{
	Use:   "practice",
	Short: "Timed practice: a fixed number of questions against the clock",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f practiceFlags
		f.tier, _ = cmd.Flags().GetString("tier")
		f.topics, _ = cmd.Flags().GetStringSlice("topic")
		f.difficulty, _ = cmd.Flags().GetString("difficulty")
		return runPractice(cmd, f)
	},
}

var playChallengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Elimination challenge: keep answering until you run out of lives",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		maxWrong, _ := cmd.Flags().GetInt("max-wrong")
		questions, _ := cmd.Flags().GetInt("questions")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		filter, err := sampler.ParseFilter(a.Engine.Bank(), topics, difficulty)
		if err != nil {
			return err
		}
		c := a.Engine.PrepareChallenge(session.ChallengeConfig{
			Topics:       filter.Topics,
			Difficulty:   filter.Difficulty,
			MaxWrong:     maxWrong,
			NumQuestions: questions,
		})
		if err := checkDraw(len(c.Items), filter); err != nil {
			return err
		}
		return runSession(cmd, a, func(opts tui.Options) *tui.Model {
			return tui.NewChallenge(cmd.Context(), a.Engine, c, opts)
		})
	},
}

func runPractice(cmd *cobra.Command, f practiceFlags) error {
	tier, err := session.ParseTier(f.tier)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	filter, err := sampler.ParseFilter(a.Engine.Bank(), f.topics, f.difficulty)
	if err != nil {
		return err
	}
	var difficulty bank.Difficulty
	if f.difficulty != "" {
		difficulty = filter.Difficulty
	}

	p, err := a.Engine.StartPractice(session.PracticeConfig{
		Topics:     filter.Topics,
		Difficulty: difficulty,
		Tier:       tier,
	})
	if err != nil {
		return err
	}
	if err := checkDraw(len(p.Items), filter); err != nil {
		return err
	}
	return runSession(cmd, a, func(opts tui.Options) *tui.Model {
		return tui.NewPractice(cmd.Context(), a.Engine, p, opts)
	})
}

// minPlayable is the smallest draw a session is started with.
const minPlayable = 1

var errNoQuestions = errors.New("no questions match")

// checkDraw refuses draws too small to play. Nothing has been stored at
// this point, so the drawn session is simply dropped.
func checkDraw(drawn int, f sampler.Filter) error {
	if drawn >= minPlayable {
		return nil
	}
	topics := "any topic"
	if len(f.Topics) > 0 {
		topics = joinTopics(f.Topics)
	}
	difficulty := "any difficulty"
	if f.Difficulty != "" && f.Difficulty != bank.AnyDifficulty {
		difficulty = string(f.Difficulty)
	}
	return fmt.Errorf("%w %s at %s; try another --topic or --difficulty", errNoQuestions, topics, difficulty)
}

func runSession(cmd *cobra.Command, a *app.App, newModel func(tui.Options) *tui.Model) error {
	opts := tui.Options{UID: resolveUser(cmd)}

	// The explainer is optional; the session works without it.
	explainer, err := a.Explainer(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Explanations will come from the question bank only.")
	}
	opts.Explainer = explainer

	m := newModel(opts)
	if err := app.Run(m); err != nil {
		return err
	}

	rec, ok, saveErr := m.Result()
	if !ok {
		if m.Abandoned() {
			fmt.Println("Session abandoned; nothing was saved.")
		}
		return nil
	}
	verdict := "not passed"
	if rec.Passed {
		verdict = "passed"
	}
	fmt.Printf("%s: %d/%d correct, %s in %ds\n", rec.Mode, rec.Correct, rec.QuestionCount, verdict, rec.DurationSec)
	if saveErr != nil {
		return fmt.Errorf("session finished but was not saved: %w", saveErr)
	}
	return nil
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().StringSliceP("topic", "t", nil, "Restrict to these topics (repeatable or comma-separated)")
	c.Flags().StringP("difficulty", "d", "", "Bank difficulty: easy, medium, hard or all")
}

func init() {
	playPracticeCmd.Flags().String("tier", "easy", "Practice tier: easy, medium, hard or expert")
	addFilterFlags(playPracticeCmd)

	playChallengeCmd.Flags().Int("max-wrong", session.DefaultMaxWrong, "Wrong answers allowed before elimination")
	playChallengeCmd.Flags().IntP("questions", "n", session.DefaultNumQuestions, "Number of questions to draw")
	addFilterFlags(playChallengeCmd)

	playCmd.AddCommand(playPracticeCmd)
	playCmd.AddCommand(playChallengeCmd)
}
