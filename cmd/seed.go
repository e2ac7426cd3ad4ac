package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate sample services, events, test cases and defects",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return err
		}

		if clear, _ := cmd.Flags().GetBool("clear"); clear {
			if err := deps.Seed.Clear(ctx); err != nil {
				return err
			}
		}

		result, err := deps.Seed.Generate(ctx)
		if err != nil {
			return err
		}

		cmd.Println(result)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("clear", false, "Wipe all existing rows before generating")
}
