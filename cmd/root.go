package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/timvw/prompt-selector/internal/api"
	"github.com/timvw/prompt-selector/internal/config"
	telem "github.com/timvw/prompt-selector/internal/otel"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagBaseURL string
	flagModel   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "prompt-selector",
	Short: "Compare two LLM responses side by side and record which one is better",
	Long: `prompt-selector is a terminal client for a preference-collection backend.

Enter a prompt, get two responses sampled with different parameters,
pick the better one (or mark a tie), and the choice becomes a training
pair. Statistics and the collected training data can be exported at
any time.

Without a subcommand the interactive comparison screen is started.
Configuration is loaded from .prompt-selector.yaml or
~/.config/prompt-selector/config.yaml and PROMPT_SELECTOR_* environment
variables. Flags override both.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend API base URL (default: http://localhost:8000/api)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name sent with generate requests (default: gpt-3.5-turbo)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug logging")
	addCompareFlags(rootCmd)
}

// app bundles everything a command needs to talk to the backend.
type app struct {
	cfg     *config.Config
	client  *api.Client
	logger  *log.Logger
	tel     *telem.Telemetry
	metrics *telem.Metrics
	runID   string
}

// loadConfig resolves defaults -> config file -> env vars -> flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	return cfg, nil
}

// newApp builds the logger, telemetry and backend client. Logs go to logOut.
func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) *app {
	logger := newLogger(logOut, cfg.LogLevel)
	if cfg.ConfigFile != "" {
		logger.Debug("config loaded", "file", cfg.ConfigFile)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// One id groups every span and metric of this run.
	runID := uuid.NewString()

	// Initialize OTEL before the client so its transport picks up the
	// tracer provider. No-op if no endpoint configured.
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
		RunID:    runID,
	})
	if err != nil {
		logger.Warn("otel init failed", "err", err)
	} else {
		logger.Debug("telemetry", "exporting", tel.Enabled(), "endpoint", cfg.OTELEndpoint)
	}

	a := &app{cfg: cfg, logger: logger, tel: tel, runID: runID}
	if tel != nil {
		a.metrics = tel.Metrics
	}
	a.client = api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Metrics: a.metrics,
		Logger:  logger,
	})
	logger.Debug("backend configured", "base_url", a.client.BaseURL(), "model", cfg.Model, "run_id", runID)
	return a
}

// setup is loadConfig followed by newApp.
func setup(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, logOut), nil
}

// Close flushes telemetry.
func (a *app) Close(ctx context.Context) {
	if err := a.tel.Shutdown(ctx); err != nil {
		a.logger.Warn("otel shutdown failed", "err", err)
	}
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "prompt-selector",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if flagVerbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// openLogFile opens path for appending, creating parent directories.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
