package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
)

var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or migrate the SQLite schema",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return err
		}

		logging.Info(ctx, "database initialized", slog.String("dsn", app.Config.Database.DSN))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
