package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/diabrisk/internal/interfaces/reporttext"
)

// parseCmd converts a text report into the JSON returned by POST /api/evaluate.
var parseCmd = &cobra.Command{
	Use:     "parse",
	Short:   "Convert a text report on stdin to JSON",
	Example: `  echo "170 70 2 1 1 2 1 2 2 3 3 2" | diabrisk assess | diabrisk parse`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), reporttext.Scan(string(raw)))
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
