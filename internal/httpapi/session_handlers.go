package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"pulseboard/internal/auth"
	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	principal, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		logging.Error(r.Context(), "login failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusServiceUnavailable, "unable to load data")
		return
	}

	session := ports.Session{
		Token:     uuid.NewString(),
		Username:  principal.Username,
		Role:      string(principal.Role),
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Put(r.Context(), session); err != nil {
		logging.Error(r.Context(), "store session failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusServiceUnavailable, "unable to load data")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	logging.Info(r.Context(), "user logged in",
		slog.String("user", principal.Username),
		slog.String("role", string(principal.Role)),
	)
	writeJSON(w, http.StatusOK, loginResponse{
		Username: principal.Username,
		Role:     string(principal.Role),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logging.Warn(r.Context(), "delete session failed", slog.Any("err", errs.Loggable(err)))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
