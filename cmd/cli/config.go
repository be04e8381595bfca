package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/config"
	"github.com/turtacn/diabrisk/pkg/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

// configValidateCmd loads and validates the configuration, including the scoring tables.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and scoring tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader(configFile, logger.NewNoopLogger())
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		source := loader.ConfigFileUsed()
		if source == "" {
			source = "defaults and environment"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK (%s): storage=%s, %d questions, %d tiers\n",
			source, cfg.Storage.Driver, len(cfg.Scoring.Questions), len(cfg.Scoring.Thresholds))
		return nil
	},
}

// questionsCmd prints the questionnaire catalogue.
var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader(configFile, logger.NewNoopLogger())
		cfg, err := loader.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, dto.NewQuestionsResponse(cfg.Scoring.Questions))
		}
		for _, q := range cfg.Scoring.Questions {
			fmt.Fprintf(out, "Q%d: %s\n", q.ID, q.Text)
			for _, o := range q.Options {
				fmt.Fprintf(out, "  %d: %s\n", o.Value, o.Label)
			}
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd, questionsCmd)
}
