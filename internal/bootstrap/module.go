package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"pulseboard/internal/auth"
	"pulseboard/internal/bootstrap/config"
	"pulseboard/internal/bootstrap/database"
	"pulseboard/internal/bootstrap/logging"
	sqliterepo "pulseboard/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "pulseboard/internal/infrastructure/persistence/sqlite/uow"
	pdfrender "pulseboard/internal/infrastructure/render/pdf"
	sessioninfra "pulseboard/internal/infrastructure/session"
	"pulseboard/internal/httpapi"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
	dashboarduc "pulseboard/internal/usecase/dashboard"
	reportuc "pulseboard/internal/usecase/report"
	seeduc "pulseboard/internal/usecase/seed"
	uatuc "pulseboard/internal/usecase/uat"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewServiceRepository,
			fx.As(new(ports.ServiceRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewEventRepository,
			fx.As(new(ports.EventRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewTestCaseRepository,
			fx.As(new(ports.TestCaseRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewDefectRepository,
			fx.As(new(ports.DefectRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewUserRepository,
			fx.As(new(ports.UserRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sessioninfra.NewSQLiteStore,
			fx.As(new(ports.SessionStore)),
		),
	),
	fx.Provide(provideReportProfile),
	fx.Provide(provideRenderer),
	fx.Provide(auth.NewAuthenticator),
	fx.Provide(analyticsuc.NewService),
	fx.Provide(uatuc.NewService),
	fx.Provide(dashboarduc.NewService),
	fx.Provide(reportuc.NewService),
	fx.Provide(seeduc.NewService),
	fx.Provide(provideHTTPServer),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideReportProfile(cfg config.Config) (reportuc.Profile, error) {
	return reportuc.LoadProfile(cfg.Report.ProfileFile)
}

func provideRenderer(profile reportuc.Profile) reportuc.Renderer {
	return pdfrender.NewRenderer(profile.Footer)
}

func provideHTTPServer(
	cfg config.Config,
	authenticator *auth.Authenticator,
	sessions ports.SessionStore,
	dashboardSvc *dashboarduc.Service,
	analyticsSvc *analyticsuc.Service,
	uatSvc *uatuc.Service,
	reportSvc *reportuc.Service,
) *httpapi.Server {
	return httpapi.NewServer(
		authenticator,
		sessions,
		cfg.Server.SessionTTL,
		dashboardSvc,
		analyticsSvc,
		uatSvc,
		reportSvc,
	)
}
