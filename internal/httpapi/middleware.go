package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"pulseboard/internal/auth"
	"pulseboard/internal/bootstrap/logging"
)

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithAttrs(r.Context(),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		logging.Info(ctx, "request handled",
			slog.Int("status", wrapped.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// sessionAuth resolves the session cookie into a context principal.
// Missing, unknown or expired tokens end the request with 401.
func (s *Server) sessionAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		session, found, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "unable to load data")
			return
		}
		if !found || s.now().After(session.ExpiresAt) {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}

		ctx := auth.WithPrincipal(r.Context(), auth.Principal{
			Authenticated: true,
			Username:      session.Username,
			Role:          auth.Role(session.Role),
		})
		ctx = logging.WithAttrs(ctx, slog.String("user", session.Username))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.RequireRole(r.Context(), roles...); err != nil {
				respondError(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
