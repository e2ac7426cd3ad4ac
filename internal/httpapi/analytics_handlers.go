package httpapi

import (
	"bytes"
	"net/http"
	"time"

	domain "pulseboard/internal/domain/analytics"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
)

type kpiPayload struct {
	TotalEvents    int     `json:"total_events"`
	CompletionRate float64 `json:"completion_rate"`
	ErrorRate      float64 `json:"error_rate"`
	PendingRate    float64 `json:"pending_rate"`
	AvgJourneyTime float64 `json:"avg_journey_time"`
}

type servicePerfPayload struct {
	Service        string  `json:"service"`
	CompletionRate float64 `json:"completion_rate"`
	TotalEvents    int     `json:"total_events"`
}

type statusCountPayload struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type eventPayload struct {
	ID           uint     `json:"id"`
	Service      string   `json:"service"`
	Channel      string   `json:"channel"`
	Action       string   `json:"action"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	JourneyTime  *float64 `json:"journey_time"`
	ErrorMessage *string  `json:"error_message"`
}

type analyticsResponse struct {
	KPI                kpiPayload           `json:"kpi"`
	ServicePerformance []servicePerfPayload `json:"service_performance"`
	StatusDistribution []statusCountPayload `json:"status_distribution"`
	Events             []eventPayload       `json:"events"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	filter, err := analyticsFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := s.analytics.Overview(r.Context(), filter)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		KPI:                toKPIPayload(overview.KPI),
		ServicePerformance: toServicePerfPayloads(overview.ServicePerf),
		StatusDistribution: toStatusCountPayloads(overview.StatusDist),
		Events:             toEventPayloads(overview.Rows),
	})
}

func (s *Server) handleAnalyticsExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := analyticsFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := s.analytics.Overview(r.Context(), filter)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := analyticsuc.WriteEventsCSV(&buf, overview.Rows); err != nil {
		respondRenderError(r.Context(), w, err)
		return
	}
	serveDownload(w, "events.csv", "text/csv", buf.Bytes())
}

func (s *Server) handleAnalyticsPDF(w http.ResponseWriter, r *http.Request) {
	filter, err := analyticsFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := s.reports.AnalyticsPDF(r.Context(), filter)
	if err != nil {
		respondRenderError(r.Context(), w, err)
		return
	}
	serveDownload(w, "analytics_report.pdf", "application/pdf", payload)
}

func (s *Server) handleUATPDF(w http.ResponseWriter, r *http.Request) {
	serviceID, err := queryServiceID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := s.reports.UATPDF(r.Context(), serviceID)
	if err != nil {
		respondRenderError(r.Context(), w, err)
		return
	}
	serveDownload(w, "uat_report.pdf", "application/pdf", payload)
}

func analyticsFilterFromQuery(r *http.Request) (analyticsuc.Filter, error) {
	serviceID, err := queryServiceID(r)
	if err != nil {
		return analyticsuc.Filter{}, err
	}
	start, err := queryDate(r, "start")
	if err != nil {
		return analyticsuc.Filter{}, err
	}
	end, err := queryDate(r, "end")
	if err != nil {
		return analyticsuc.Filter{}, err
	}

	filter := analyticsuc.Filter{ServiceID: serviceID, Start: start, End: end}
	if err := analyticsuc.ValidateFilter(filter); err != nil {
		return analyticsuc.Filter{}, err
	}
	return filter, nil
}

func serveDownload(w http.ResponseWriter, filename, contentType string, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func toKPIPayload(kpi domain.KPISnapshot) kpiPayload {
	return kpiPayload{
		TotalEvents:    kpi.TotalEvents,
		CompletionRate: kpi.CompletionRate,
		ErrorRate:      kpi.ErrorRate,
		PendingRate:    kpi.PendingRate,
		AvgJourneyTime: kpi.AvgJourneyTime,
	}
}

func toServicePerfPayloads(perf []domain.ServicePerformance) []servicePerfPayload {
	out := make([]servicePerfPayload, 0, len(perf))
	for _, entry := range perf {
		out = append(out, servicePerfPayload{
			Service:        entry.Service,
			CompletionRate: entry.CompletionRate,
			TotalEvents:    entry.TotalEvents,
		})
	}
	return out
}

func toStatusCountPayloads(dist []domain.StatusCount) []statusCountPayload {
	out := make([]statusCountPayload, 0, len(dist))
	for _, entry := range dist {
		out = append(out, statusCountPayload{
			Status:     entry.Status,
			Count:      entry.Count,
			Percentage: entry.Percentage,
		})
	}
	return out
}

func toEventPayloads(rows []ports.EventRow) []eventPayload {
	out := make([]eventPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventPayload{
			ID:           row.ID,
			Service:      row.Service,
			Channel:      row.Channel,
			Action:       row.Action,
			Status:       row.Status,
			Timestamp:    row.Timestamp.Format(time.RFC3339),
			JourneyTime:  row.JourneyTime,
			ErrorMessage: row.ErrorMessage,
		})
	}
	return out
}
