package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print collection statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		s, err := a.client.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}
		return printJSON(s)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
