package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	"pulseboard/internal/usecase/dashboardtui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the live terminal dashboard",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return err
		}

		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		model := dashboardtui.NewModel(ctx, deps.Dashboard, dashboardtui.Options{
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run dashboard")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().Duration("refresh-interval", 30*time.Second, "Auto refresh interval")
}
