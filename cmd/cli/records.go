package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/diabrisk/internal/domain/models"
)

var historyLimit int

// historyCmd prints recorded assessments, most recent first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded assessments, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		resp, err := app.Service.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, resp)
		}
		if len(resp.History) == 0 {
			fmt.Fprintln(out, "No assessments recorded.")
			return nil
		}
		for _, h := range resp.History {
			fmt.Fprintf(out, "%s | Score: %d | BMI: %.1f | Risk: %s\n", h.Timestamp, h.Score, h.BMI, h.Risk)
		}
		return nil
	},
}

// statsCmd prints the population aggregate.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show population statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		resp, err := app.Service.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, resp)
		}
		fmt.Fprintf(out, "Average Score: %.1f\n", models.RoundOneDecimal(resp.AverageScore))
		fmt.Fprintf(out, "Total Assessments: %d\n", resp.TotalUsers)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum number of records (0 uses report.history_limit)")
	rootCmd.AddCommand(historyCmd, statsCmd)
}
