package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	analyticsuc "pulseboard/internal/usecase/analytics"
)

var exportCmd = &cobra.Command{
	Use:   "export [events|testcases|defects]",
	Short: "Export filtered rows as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return err
		}

		kind := strings.ToLower(strings.TrimSpace(cmd.Flags().Arg(0)))
		out, _ := cmd.Flags().GetString("out")
		if strings.TrimSpace(out) == "" {
			out = kind + ".csv"
		}

		file, err := os.Create(out)
		if err != nil {
			return errs.Wrapf(err, "create export file %q", out)
		}
		defer func() { _ = file.Close() }()

		var rowCount int
		switch kind {
		case "events":
			filter, filterErr := filterFromFlags(cmd)
			if filterErr != nil {
				return filterErr
			}
			overview, overviewErr := deps.Analytics.Overview(ctx, filter)
			if overviewErr != nil {
				return overviewErr
			}
			if err := analyticsuc.WriteEventsCSV(file, overview.Rows); err != nil {
				return err
			}
			rowCount = len(overview.Rows)
		case "testcases":
			serviceID, idErr := serviceIDFromFlags(cmd)
			if idErr != nil {
				return idErr
			}
			rows, listErr := deps.UAT.ListTestCases(ctx, serviceID)
			if listErr != nil {
				return listErr
			}
			if err := analyticsuc.WriteTestCasesCSV(file, rows); err != nil {
				return err
			}
			rowCount = len(rows)
		case "defects":
			serviceID, idErr := serviceIDFromFlags(cmd)
			if idErr != nil {
				return idErr
			}
			rows, listErr := deps.UAT.ListDefects(ctx, serviceID)
			if listErr != nil {
				return listErr
			}
			if err := analyticsuc.WriteDefectsCSV(file, rows); err != nil {
				return err
			}
			rowCount = len(rows)
		default:
			return fmt.Errorf("unknown export kind %q (want events, testcases or defects)", kind)
		}

		logging.Info(ctx, "csv exported",
			slog.String("kind", kind),
			slog.String("file", out),
			slog.Int("rows", rowCount),
		)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("out", "", "Output file (defaults to <kind>.csv)")
	exportCmd.Flags().Uint("service", 0, "Optional service id filter")
	exportCmd.Flags().String("start", "", "Start date YYYY-MM-DD (events only)")
	exportCmd.Flags().String("end", "", "End date YYYY-MM-DD, inclusive (events only)")
}
