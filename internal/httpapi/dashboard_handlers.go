package httpapi

import (
	"net/http"

	domain "pulseboard/internal/domain/analytics"
)

type labelCountPayload struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type dashboardResponse struct {
	ServicesCount      int64                `json:"services_count"`
	KPI                kpiPayload           `json:"kpi"`
	ServicePerformance []servicePerfPayload `json:"service_performance"`
	TotalTestCases     int                  `json:"total_test_cases"`
	PassedTestCases    int                  `json:"passed_test_cases"`
	FailedTestCases    int                  `json:"failed_test_cases"`
	TestPassRate       float64              `json:"test_pass_rate"`
	TotalDefects       int                  `json:"total_defects"`
	OpenDefects        int                  `json:"open_defects"`
	CriticalDefects    int                  `json:"critical_defects"`
	SeverityBreakdown  []labelCountPayload  `json:"severity_breakdown"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.Summary(r.Context())
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		ServicesCount:      summary.ServicesCount,
		KPI:                toKPIPayload(summary.KPI),
		ServicePerformance: toServicePerfPayloads(summary.ServicePerf),
		TotalTestCases:     summary.TotalTestCases,
		PassedTestCases:    summary.PassedTestCases,
		FailedTestCases:    summary.FailedTestCases,
		TestPassRate:       summary.TestPassRate,
		TotalDefects:       summary.TotalDefects,
		OpenDefects:        summary.OpenDefects,
		CriticalDefects:    summary.CriticalDefects,
		SeverityBreakdown:  toLabelCountPayloads(summary.SeverityDist),
	})
}

func toLabelCountPayloads(dist []domain.LabelCount) []labelCountPayload {
	out := make([]labelCountPayload, 0, len(dist))
	for _, entry := range dist {
		out = append(out, labelCountPayload{Label: entry.Label, Count: entry.Count})
	}
	return out
}
