package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/timvw/prompt-selector/internal/config"
	"github.com/timvw/prompt-selector/internal/export"
	"github.com/timvw/prompt-selector/internal/tui"
)

var (
	flagTheme     string
	flagNoStars   bool
	flagLogFile   string
	flagExportDir string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Interactive screen to compare response pairs",
	Long: `Launch the interactive comparison screen.

Type a prompt and press ctrl+s to generate two responses. Tab moves
between the prompt and the two parameter panels; arrow keys adjust the
focused parameter. Press a, b or t to record your preference, n to start
over, ctrl+e to export the training data and q to quit.

The terminal belongs to the screen while it runs, so logs are written to
a file (see --log-file).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd)
	},
}

func init() {
	addCompareFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

// addCompareFlags registers the screen flags. The root command runs the
// screen too, so both carry them.
func addCompareFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagTheme, "theme", "", "color theme: dark, light")
	c.Flags().BoolVar(&flagNoStars, "no-stars", false, "disable the starfield background")
	c.Flags().StringVar(&flagLogFile, "log-file", "", "log file (default: $XDG_STATE_HOME/prompt-selector/prompt-selector.log)")
	c.Flags().StringVar(&flagExportDir, "export-dir", "", "directory for exported training data (default: ~/Downloads or .)")
}

func runCompare(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel() // aborts in-flight requests when the screen exits

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	if cfg.LogFile == "" {
		cfg.LogFile = config.DefaultLogFile()
	}
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a := newApp(ctx, cfg, logFile)
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		a.Close(shutdownCtx)
	}()

	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if flagExportDir != "" {
		cfg.ExportDir = flagExportDir
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = export.DefaultDir()
	}

	a.logger.Info("starting comparison screen", "base_url", a.client.BaseURL(), "run_id", a.runID)

	screen := &tui.TUI{
		Backend:        a.client,
		ModelName:      cfg.Model,
		ParamsA:        cfg.ParamsA,
		ParamsB:        cfg.ParamsB,
		Theme:          cfg.Theme,
		BannerDuration: cfg.BannerDuration,
		ExportDir:      cfg.ExportDir,
		Stars:          cfg.StarsEnabled() && !flagNoStars,
		FrameInterval:  cfg.FrameInterval,
		Logger:         a.logger,
		Metrics:        a.metrics,
	}
	if err := screen.Run(ctx); err != nil {
		return fmt.Errorf("comparison screen: %w", err)
	}
	return nil
}
