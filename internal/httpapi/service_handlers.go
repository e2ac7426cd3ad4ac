package httpapi

import (
	"net/http"
	"time"

	"pulseboard/internal/ports"
)

type servicePayload struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	refs, err := s.analytics.Services(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]servicePayload, 0, len(refs))
	for _, ref := range refs {
		out = append(out, servicePayload{ID: ref.ID, Name: ref.Name, Channel: ref.Channel})
	}
	writeJSON(w, http.StatusOK, out)
}

type createServiceRequest struct {
	Name        string `json:"name"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid service payload")
		return
	}

	ref, err := s.analytics.CreateService(r.Context(), ports.ServiceCreate{
		Name:        req.Name,
		Channel:     req.Channel,
		Description: req.Description,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, servicePayload{ID: ref.ID, Name: ref.Name, Channel: ref.Channel})
}

type recordEventRequest struct {
	ServiceID    uint     `json:"service_id"`
	Action       string   `json:"action"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	JourneyTime  *float64 `json:"journey_time"`
	ErrorMessage *string  `json:"error_message"`
}

func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req recordEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	timestamp := s.now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "timestamp must be RFC 3339")
			return
		}
		timestamp = parsed
	}

	err := s.analytics.RecordEvent(r.Context(), ports.EventCreate{
		ServiceID:    req.ServiceID,
		Action:       req.Action,
		Status:       req.Status,
		Timestamp:    timestamp,
		JourneyTime:  req.JourneyTime,
		ErrorMessage: req.ErrorMessage,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
