// Package httpapi exposes the dashboard over HTTP: session auth, role
// gates, JSON pages and the CSV/PDF export endpoints.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"pulseboard/internal/auth"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
	dashboarduc "pulseboard/internal/usecase/dashboard"
	reportuc "pulseboard/internal/usecase/report"
	uatuc "pulseboard/internal/usecase/uat"
)

const sessionCookieName = "pb_session"

type Server struct {
	authenticator *auth.Authenticator
	sessions      ports.SessionStore
	sessionTTL    time.Duration
	dashboard     *dashboarduc.Service
	analytics     *analyticsuc.Service
	uat           *uatuc.Service
	reports       *reportuc.Service
	now           func() time.Time
}

func NewServer(
	authenticator *auth.Authenticator,
	sessions ports.SessionStore,
	sessionTTL time.Duration,
	dashboardSvc *dashboarduc.Service,
	analyticsSvc *analyticsuc.Service,
	uatSvc *uatuc.Service,
	reportSvc *reportuc.Service,
) *Server {
	return &Server{
		authenticator: authenticator,
		sessions:      sessions,
		sessionTTL:    sessionTTL,
		dashboard:     dashboardSvc,
		analytics:     analyticsSvc,
		uat:           uatSvc,
		reports:       reportSvc,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Router mounts the API. Everything under /api except login and healthz
// requires a live session; mutations additionally require the Analyst or
// Tester role.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.sessionAuth)

			r.Post("/logout", s.handleLogout)
			r.Get("/dashboard", s.handleDashboard)

			r.Get("/analytics", s.handleAnalytics)
			r.Get("/analytics/export.csv", s.handleAnalyticsExportCSV)
			r.Get("/reports/analytics.pdf", s.handleAnalyticsPDF)
			r.Get("/reports/uat.pdf", s.handleUATPDF)

			r.Get("/services", s.handleListServices)
			r.Get("/testcases", s.handleListTestCases)
			r.Get("/testcases/export.csv", s.handleTestCasesExportCSV)
			r.Get("/defects", s.handleListDefects)
			r.Get("/defects/export.csv", s.handleDefectsExportCSV)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(auth.RoleAnalyst, auth.RoleTester))

				r.Post("/services", s.handleCreateService)
				r.Post("/events", s.handleRecordEvent)
				r.Post("/testcases", s.handleCreateTestCase)
				r.Put("/testcases/{id}", s.handleUpdateTestCase)
				r.Delete("/testcases/{id}", s.handleDeleteTestCase)
				r.Post("/testcases/batch", s.handleTestCaseBatch)
				r.Post("/defects", s.handleCreateDefect)
				r.Put("/defects/{id}", s.handleUpdateDefect)
				r.Delete("/defects/{id}", s.handleDeleteDefect)
				r.Post("/defects/batch", s.handleDefectBatch)
			})
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
