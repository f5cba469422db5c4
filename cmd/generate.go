package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timvw/prompt-selector/internal/model"
)

var (
	flagTempA      float64
	flagTempB      float64
	flagMaxTokensA int
	flagMaxTokensB int
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a response pair for a prompt",
	Long: `Send a prompt to the backend and print the stored prompt with both
responses as JSON. Use the returned id with "prefer" to record which
response is better.

Sampling parameters default to the configured variants; the flags below
override individual fields.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		if strings.TrimSpace(prompt) == "" {
			return fmt.Errorf("prompt is empty")
		}

		a, err := setup(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		paramsA, paramsB := a.cfg.ParamsA, a.cfg.ParamsB
		if cmd.Flags().Changed("temperature-a") {
			paramsA.Set(model.FieldTemperature, flagTempA)
		}
		if cmd.Flags().Changed("temperature-b") {
			paramsB.Set(model.FieldTemperature, flagTempB)
		}
		if cmd.Flags().Changed("max-tokens-a") {
			paramsA.Set(model.FieldMaxTokens, float64(flagMaxTokensA))
		}
		if cmd.Flags().Changed("max-tokens-b") {
			paramsB.Set(model.FieldMaxTokens, float64(flagMaxTokensB))
		}

		req := model.NewGenerateRequest(prompt, a.cfg.Model, paramsA, paramsB)
		resp, err := a.client.Generate(cmd.Context(), req)
		a.metrics.RecordGeneration(cmd.Context(), err)
		if err != nil {
			return fmt.Errorf("generating responses: %w", err)
		}
		a.logger.Debug("responses generated", "id", resp.ID)
		return printJSON(resp)
	},
}

func init() {
	generateCmd.Flags().Float64Var(&flagTempA, "temperature-a", 0, "temperature for response A (0-2)")
	generateCmd.Flags().Float64Var(&flagTempB, "temperature-b", 0, "temperature for response B (0-2)")
	generateCmd.Flags().IntVar(&flagMaxTokensA, "max-tokens-a", 0, "max tokens for response A (50-2000)")
	generateCmd.Flags().IntVar(&flagMaxTokensB, "max-tokens-b", 0, "max tokens for response B (50-2000)")
	rootCmd.AddCommand(generateCmd)
}
