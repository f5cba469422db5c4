package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/timvw/prompt-selector/internal/export"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the training data to a JSON file",
	Long: `Fetch every judged pair from the backend and write it unchanged to
training-data-<unix-millis>.json. Prints the path of the written file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		dir := flagExportOut
		if dir == "" {
			dir = a.cfg.ExportDir
		}
		if dir == "" {
			dir = export.DefaultDir()
		}

		payload, err := a.client.ExportTrainingData(cmd.Context())
		if err != nil {
			a.metrics.RecordExport(cmd.Context(), err)
			return fmt.Errorf("exporting data: %w", err)
		}
		path, err := export.Write(dir, payload, time.Now())
		a.metrics.RecordExport(cmd.Context(), err)
		if err != nil {
			return err
		}
		a.logger.Debug("training data exported", "path", path, "bytes", len(payload))
		fmt.Fprintln(stdout, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "dir", "", "output directory (default: export_dir from config, ~/Downloads or .)")
	rootCmd.AddCommand(exportCmd)
}
