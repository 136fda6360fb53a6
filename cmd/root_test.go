package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/sampler"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("bank", "", "")
	c.Flags().StringP("user", "u", "", "")
	c.Flags().String("db", "", "")
	c.Flags().String("metrics-file", "", "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestResolveUser(t *testing.T) {
	t.Setenv("APTIZ_USER", "")
	assert.Equal(t, "default", resolveUser(newFlagCmd(t)))

	t.Setenv("APTIZ_USER", "asha")
	assert.Equal(t, "asha", resolveUser(newFlagCmd(t)))
	assert.Equal(t, "ravi", resolveUser(newFlagCmd(t, "-u", "ravi")))
}

func TestResolveDBPath_Flag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "aptiz.db")
	got, err := resolveDBPath(newFlagCmd(t, "--db", path))
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.DirExists(t, filepath.Dir(path))
}

const easyAveragesBank = `{"version":"v1.0.0","topics":["Averages"],"items":[{
	"id":"avg-1","topic":"Averages","difficulty":"easy",
	"prompt":"Average of 2 and 4?","options":["3","4"],"correct_index":0}]}`

func writeBank(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(easyAveragesBank), 0o600))
	return path
}

func TestLoadBank(t *testing.T) {
	t.Setenv("APTIZ_BANK", "")

	b, err := loadBank(newFlagCmd(t))
	require.NoError(t, err)
	assert.Same(t, bank.Default(), b)

	path := writeBank(t)

	t.Setenv("APTIZ_BANK", path)
	b, err = loadBank(newFlagCmd(t))
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	_, err = loadBank(newFlagCmd(t, "--bank", filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)
}

func TestResolveMetricsFile(t *testing.T) {
	t.Setenv("APTIZ_METRICS_FILE", "")
	assert.Empty(t, resolveMetricsFile(newFlagCmd(t)))

	t.Setenv("APTIZ_METRICS_FILE", "/var/lib/aptiz.prom")
	assert.Equal(t, "/var/lib/aptiz.prom", resolveMetricsFile(newFlagCmd(t)))
	assert.Equal(t, "out.prom", resolveMetricsFile(newFlagCmd(t, "--metrics-file", "out.prom")))
}

func TestCheckDraw(t *testing.T) {
	assert.NoError(t, checkDraw(1, sampler.Filter{}))

	err := checkDraw(0, sampler.Filter{Topics: []bank.Topic{"Averages", "Ratios"}, Difficulty: bank.Hard})
	require.ErrorIs(t, err, errNoQuestions)
	assert.Contains(t, err.Error(), "Averages, Ratios at hard")

	err = checkDraw(0, sampler.Filter{Difficulty: bank.AnyDifficulty})
	assert.Contains(t, err.Error(), "any topic at any difficulty")
}

func TestPlayPractice_RefusesEmptyDraw(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "aptiz.db")
	metricsPath := filepath.Join(dir, "aptiz.prom")
	t.Setenv("APTIZ_KV_BACKEND", "sqlite")
	t.Setenv("APTIZ_USER", "")

	rootCmd.SetArgs([]string{
		"play", "practice",
		"--env-file", "",
		"--bank", writeBank(t),
		"--db", dbPath,
		"--metrics-file", metricsPath,
		"--difficulty", "hard",
	})
	err := rootCmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, errNoQuestions)

	s, err := openStore(newFlagCmd(t, "--db", dbPath))
	require.NoError(t, err)
	defer s.Close()
	_, found, err := s.KV().Get(context.Background(), progress.Key("default"))
	require.NoError(t, err)
	assert.False(t, found, "a refused session must not be archived")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "aptiz_sessions_started_total")
}

func TestStatsTopics(t *testing.T) {
	agg := progress.Aggregate{
		Sessions: 3,
		ByTopic: map[bank.Topic]progress.TopicAggregate{
			"Ratios":          {Attempts: 1},
			"Percentages":     {Attempts: 2},
			"Calendars":       {Attempts: 1},
			"Blood Relations": {Attempts: 1},
		},
	}
	known := []bank.Topic{"Percentages", "Averages", "Ratios"}

	got := statsTopics(known, agg)
	assert.Equal(t, []bank.Topic{"Percentages", "Ratios", "Blood Relations", "Calendars"}, got)
}
