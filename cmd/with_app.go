package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"pulseboard/internal/auth"
	"pulseboard/internal/bootstrap"
	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	"pulseboard/internal/httpapi"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
	dashboarduc "pulseboard/internal/usecase/dashboard"
	reportuc "pulseboard/internal/usecase/report"
	seeduc "pulseboard/internal/usecase/seed"
	uatuc "pulseboard/internal/usecase/uat"
)

// appDeps bundles everything a command may need from the container.
type appDeps struct {
	Authenticator *auth.Authenticator
	Users         ports.UserRepository
	Analytics     *analyticsuc.Service
	UAT           *uatuc.Service
	Dashboard     *dashboarduc.Service
	Report        *reportuc.Service
	Seed          *seeduc.Service
	HTTPServer    *httpapi.Server
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, deps *appDeps) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		deps := &appDeps{}
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(
				&app,
				&deps.Authenticator,
				&deps.Users,
				&deps.Analytics,
				&deps.UAT,
				&deps.Dashboard,
				&deps.Report,
				&deps.Seed,
				&deps.HTTPServer,
			),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app, deps); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
