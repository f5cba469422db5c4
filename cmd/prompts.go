package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/timvw/prompt-selector/internal/model"
)

var flagPending bool

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List stored prompts",
	Long: `List every prompt stored by the backend as JSON, in backend order.
With --pending only prompts that still wait for a preference are shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		prompts, err := a.client.ListPrompts(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing prompts: %w", err)
		}
		if flagPending {
			prompts = pending(prompts)
		}
		if prompts == nil {
			prompts = []model.Prompt{}
		}
		return printJSON(prompts)
	},
}

// pending keeps prompts without a recorded preference.
func pending(prompts []model.Prompt) []model.Prompt {
	var out []model.Prompt
	for _, p := range prompts {
		if p.Preference == nil {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	promptsCmd.Flags().BoolVar(&flagPending, "pending", false, "only prompts without a preference")
	rootCmd.AddCommand(promptsCmd)
}
