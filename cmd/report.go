package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	analyticsuc "pulseboard/internal/usecase/analytics"
)

var reportCmd = &cobra.Command{
	Use:   "report [analytics|uat]",
	Short: "Export a PDF report",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return err
		}

		kind := strings.ToLower(strings.TrimSpace(cmd.Flags().Arg(0)))
		out, _ := cmd.Flags().GetString("out")

		var payload []byte
		var err error
		switch kind {
		case "analytics":
			filter, filterErr := filterFromFlags(cmd)
			if filterErr != nil {
				return filterErr
			}
			payload, err = deps.Report.AnalyticsPDF(ctx, filter)
		case "uat":
			serviceID, idErr := serviceIDFromFlags(cmd)
			if idErr != nil {
				return idErr
			}
			payload, err = deps.Report.UATPDF(ctx, serviceID)
		default:
			return fmt.Errorf("unknown report kind %q (want analytics or uat)", kind)
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(out) == "" {
			out = kind + "_report.pdf"
		}
		if err := os.WriteFile(out, payload, 0o644); err != nil {
			return errs.Wrapf(err, "write report %q", out)
		}

		logging.Info(ctx, "report exported",
			slog.String("kind", kind),
			slog.String("file", out),
			slog.Int("bytes", len(payload)),
		)
		return nil
	}),
}

func filterFromFlags(cmd *cobra.Command) (analyticsuc.Filter, error) {
	serviceID, err := serviceIDFromFlags(cmd)
	if err != nil {
		return analyticsuc.Filter{}, err
	}

	filter := analyticsuc.Filter{ServiceID: serviceID}
	start, err := dateFromFlag(cmd, "start")
	if err != nil {
		return analyticsuc.Filter{}, err
	}
	filter.Start = start

	end, err := dateFromFlag(cmd, "end")
	if err != nil {
		return analyticsuc.Filter{}, err
	}
	filter.End = end

	if err := analyticsuc.ValidateFilter(filter); err != nil {
		return analyticsuc.Filter{}, err
	}
	return filter, nil
}

func serviceIDFromFlags(cmd *cobra.Command) (*uint, error) {
	raw, _ := cmd.Flags().GetUint("service")
	if raw == 0 {
		return nil, nil
	}
	serviceID := raw
	return &serviceID, nil
}

func dateFromFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be formatted as YYYY-MM-DD", name)
	}
	return &parsed, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("out", "", "Output file (defaults to <kind>_report.pdf)")
	reportCmd.Flags().Uint("service", 0, "Optional service id filter")
	reportCmd.Flags().String("start", "", "Start date YYYY-MM-DD")
	reportCmd.Flags().String("end", "", "End date YYYY-MM-DD (inclusive)")
}
