// Package app wires storage, the engine and the optional LLM explainer
// together and runs the terminal driver.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/aptiz/internal/bank"
	"github.com/abhisek/aptiz/internal/engine"
	"github.com/abhisek/aptiz/internal/explain"
	"github.com/abhisek/aptiz/internal/kv"
	"github.com/abhisek/aptiz/internal/llm"
	"github.com/abhisek/aptiz/internal/progress"
	"github.com/abhisek/aptiz/internal/store"
	"github.com/abhisek/aptiz/internal/tui"
)

// Options configures Open.
type Options struct {
	// DBPath is the SQLite file holding LLM request logs and, with the
	// sqlite backend, session history.
	DBPath string

	KV     kv.Config
	Bank   *bank.Bank // Default: bank.Default()
	Logger *slog.Logger

	// Registry receives engine metrics. Default: a new registry.
	Registry *prometheus.Registry

	// MetricsFile, if set, receives the metrics in the Prometheus text
	// format when the App is closed, for node_exporter's textfile
	// collector.
	MetricsFile string
}

// App holds the opened resources of one process.
type App struct {
	Store   *store.Store
	Engine  *engine.Engine
	Logger  *slog.Logger
	Metrics *prometheus.Registry

	metricsFile string
	closers     []io.Closer
}

// Open opens the SQLite store and the configured history backend and
// builds the engine.
func Open(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(os.Getenv("APTIZ_LOG_LEVEL"))
	}
	b := opts.Bank
	if b == nil {
		b = bank.Default()
	}
	if err := opts.KV.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	a := &App{
		Store:       st,
		Logger:      logger,
		Metrics:     reg,
		metricsFile: opts.MetricsFile,
		closers:     []io.Closer{st},
	}

	backend, err := a.openBackend(ctx, opts.KV)
	if err != nil {
		a.Close()
		return nil, err
	}

	numeric, err := engine.NumericTopicsFromEnv(b)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Engine, err = engine.New(engine.Options{
		Bank:          b,
		Progress:      progress.NewStore(backend, logger),
		Logger:        logger,
		Registerer:    reg,
		NumericTopics: numeric,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openBackend(ctx context.Context, cfg kv.Config) (kv.Store, error) {
	switch cfg.Backend {
	case "", kv.BackendSQLite:
		return a.Store.KV(), nil
	case kv.BackendMemory:
		return kv.NewMemory(), nil
	case kv.BackendRedis:
		r, err := kv.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, r)
		return r, nil
	case kv.BackendMongo:
		m, err := kv.OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, m)
		return m, nil
	}
	return nil, fmt.Errorf("unknown kv backend %q", cfg.Backend)
}

// Close writes the metrics file, if configured, and releases every opened
// resource.
func (a *App) Close() error {
	var errs []error
	if a.metricsFile != "" && a.Engine != nil {
		if err := prometheus.WriteToTextfile(a.metricsFile, a.Metrics); err != nil {
			a.Logger.Warn("writing metrics file failed", "path", a.metricsFile, "error", err)
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
		a.metricsFile = ""
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Provider builds the LLM provider from the environment. Requests are
// logged to the store.
func (a *App) Provider(ctx context.Context) (llm.Provider, error) {
	return llm.NewProviderFromEnv(ctx, a.Store.EventRepo(), a.Logger)
}

// Explainer returns an LLM-backed explainer that falls back to the bank's
// explanations. Without a configured provider it returns explain.Static
// along with the configuration error.
func (a *App) Explainer(ctx context.Context) (explain.Explainer, error) {
	provider, err := a.Provider(ctx)
	if err != nil {
		return explain.Static{}, err
	}
	return explain.Fallback{
		Primary:   explain.NewLLM(provider, explain.DefaultConfig()),
		Secondary: explain.Static{},
	}, nil
}

// Run drives m in the terminal until the user exits.
func Run(m *tui.Model) error {
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
