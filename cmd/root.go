package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abhisek/aptiz/internal/app"
	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/kv"
	"github.com/abhisek/aptiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "aptiz",
	Short: "Timed multiple-choice aptitude practice",
	Long: "aptiz draws questions from a curated aptitude bank, runs timed practice " +
		"sessions or elimination challenges in the terminal, and keeps your history.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, practiceFlags{})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides APTIZ_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load if present")
	rootCmd.PersistentFlags().String("bank", "", "Question bank JSON file (overrides APTIZ_BANK; default: built-in bank)")
	rootCmd.PersistentFlags().StringP("user", "u", "", "User whose history to use (default: APTIZ_USER or \"default\")")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit (overrides APTIZ_METRICS_FILE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEnvFile loads --env-file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then APTIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUser returns --user, then APTIZ_USER, then "default".
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("APTIZ_USER"); u != "" {
		return u
	}
	return "default"
}

// resolveMetricsFile returns --metrics-file, then APTIZ_METRICS_FILE. Empty
// means metrics are not written.
func resolveMetricsFile(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("metrics-file"); p != "" {
		return p
	}
	return os.Getenv("APTIZ_METRICS_FILE")
}

// loadBank returns the bank named by --bank or APTIZ_BANK, or the built-in
// bank.
func loadBank(cmd *cobra.Command) (*bank.Bank, error) {
	path, _ := cmd.Flags().GetString("bank")
	if path == "" {
		path = os.Getenv("APTIZ_BANK")
	}
	if path == "" {
		return bank.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()
	b, err := bank.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// openStore opens only the SQLite store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openApp opens the store, the history backend from APTIZ_KV_BACKEND and
// the engine.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	b, err := loadBank(cmd)
	if err != nil {
		return nil, err
	}
	return app.Open(cmd.Context(), app.Options{
		DBPath:      dbPath,
		KV:          kv.ConfigFromEnv(),
		Bank:        b,
		Registry:    prometheus.NewRegistry(),
		MetricsFile: resolveMetricsFile(cmd),
	})
}
