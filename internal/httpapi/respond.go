package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pulseboard/internal/auth"
	"pulseboard/internal/bootstrap/logging"
	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
	uatuc "pulseboard/internal/usecase/uat"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps usecase errors onto HTTP statuses. Anything not
// recognized is treated as a validation fault.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "role not permitted")
	case errors.Is(err, analyticsuc.ErrDataUnavailable), errors.Is(err, uatuc.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unable to load data")
	case errors.Is(err, ports.ErrServiceNotFound),
		errors.Is(err, ports.ErrTestCaseNotFound),
		errors.Is(err, ports.ErrDefectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func respondRenderError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, analyticsuc.ErrDataUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "unable to load data")
		return
	}
	logging.Error(ctx, "report export failed", slog.Any("err", errs.Loggable(err)))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errs.Wrap(err, "decode request body")
	}
	return nil
}

func pathID(r *http.Request, param func(*http.Request, string) string) (uint, error) {
	raw := param(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// queryServiceID reads the optional ?service= filter.
func queryServiceID(r *http.Request) (*uint, error) {
	raw := r.URL.Query().Get("service")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, errors.New("service must be a numeric id")
	}
	serviceID := uint(id)
	return &serviceID, nil
}

const dateLayout = "2006-01-02"

// queryDate reads an optional calendar-day bound.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.New(name + " must be formatted as YYYY-MM-DD")
	}
	return &parsed, nil
}
