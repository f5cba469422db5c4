package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/timvw/prompt-selector/internal/model"
)

var preferCmd = &cobra.Command{
	Use:   "prefer <id> <A|B|TIE>",
	Short: "Record which response of a pair is better",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pref, err := model.ParsePreference(args[1])
		if err != nil {
			return err
		}

		a, err := setup(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		ack, err := a.client.RecordPreference(cmd.Context(), model.PromptID(args[0]), pref)
		if err != nil {
			return fmt.Errorf("recording preference: %w", err)
		}
		a.metrics.RecordPreference(cmd.Context(), string(pref))
		return printJSON(ack)
	},
}

func init() {
	rootCmd.AddCommand(preferCmd)
}
