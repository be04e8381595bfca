package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/diabrisk/internal/bootstrap"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := bootstrap.New(ctx, bootstrap.Options{ConfigFile: configFile})
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())
		return app.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
