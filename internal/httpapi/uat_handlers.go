package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
	uatuc "pulseboard/internal/usecase/uat"
)

type testCasePayload struct {
	ID             uint   `json:"id"`
	ServiceID      uint   `json:"service_id"`
	Service        string `json:"service"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func (s *Server) handleListTestCases(w http.ResponseWriter, r *http.Request) {
	serviceID, err := queryServiceID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.uat.ListTestCases(r.Context(), serviceID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]testCasePayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, testCasePayload{
			ID:             row.ID,
			ServiceID:      row.ServiceID,
			Service:        row.Service,
			Title:          row.Title,
			Description:    row.Description,
			ExpectedResult: row.ExpectedResult,
			Status:         row.Status,
			CreatedAt:      row.CreatedAt.Format(time.RFC3339),
			UpdatedAt:      row.UpdatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type createTestCaseRequest struct {
	ServiceID      uint   `json:"service_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ExpectedResult string `json:"expected_result"`
	TestSteps      string `json:"test_steps"`
	Status         string `json:"status"`
}

func (s *Server) handleCreateTestCase(w http.ResponseWriter, r *http.Request) {
	var req createTestCaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid test case payload")
		return
	}

	id, err := s.uat.CreateTestCase(r.Context(), ports.TestCaseCreate{
		ServiceID:      req.ServiceID,
		Title:          req.Title,
		Description:    req.Description,
		ExpectedResult: req.ExpectedResult,
		TestSteps:      req.TestSteps,
		Status:         req.Status,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint{"id": id})
}

type updateTestCaseRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	ExpectedResult *string `json:"expected_result"`
	TestSteps      *string `json:"test_steps"`
	Status         *string `json:"status"`
}

func (s *Server) handleUpdateTestCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, chi.URLParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateTestCaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid test case payload")
		return
	}

	err = s.uat.UpdateTestCase(r.Context(), id, ports.TestCaseUpdate{
		Title:          req.Title,
		Description:    req.Description,
		ExpectedResult: req.ExpectedResult,
		TestSteps:      req.TestSteps,
		Status:         req.Status,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteTestCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, chi.URLParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.uat.DeleteTestCase(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type testCaseBatchRequest struct {
	Edits []testCaseEditPayload `json:"edits"`
}

type testCaseEditPayload struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
	Delete bool   `json:"delete"`
}

type batchResponse struct {
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

func (s *Server) handleTestCaseBatch(w http.ResponseWriter, r *http.Request) {
	var req testCaseBatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch payload")
		return
	}

	edits := make([]uatuc.TestCaseEdit, 0, len(req.Edits))
	for _, edit := range req.Edits {
		edits = append(edits, uatuc.TestCaseEdit{ID: edit.ID, Status: edit.Status, Delete: edit.Delete})
	}

	result, err := s.uat.SaveTestCaseBatch(r.Context(), edits)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Updated: result.Updated, Deleted: result.Deleted})
}

type defectPayload struct {
	ID         uint    `json:"id"`
	ServiceID  uint    `json:"service_id"`
	Service    string  `json:"service"`
	TestCaseID *uint   `json:"test_case_id"`
	Title      string  `json:"title"`
	Severity   string  `json:"severity"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	ResolvedAt *string `json:"resolved_at"`
}

func (s *Server) handleListDefects(w http.ResponseWriter, r *http.Request) {
	serviceID, err := queryServiceID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.uat.ListDefects(r.Context(), serviceID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	out := make([]defectPayload, 0, len(rows))
	for _, row := range rows {
		payload := defectPayload{
			ID:         row.ID,
			ServiceID:  row.ServiceID,
			Service:    row.Service,
			TestCaseID: row.TestCaseID,
			Title:      row.Title,
			Severity:   row.Severity,
			Status:     row.Status,
			CreatedAt:  row.CreatedAt.Format(time.RFC3339),
		}
		if row.ResolvedAt != nil {
			resolved := row.ResolvedAt.Format(time.RFC3339)
			payload.ResolvedAt = &resolved
		}
		out = append(out, payload)
	}
	writeJSON(w, http.StatusOK, out)
}

type createDefectRequest struct {
	ServiceID        uint   `json:"service_id"`
	TestCaseID       *uint  `json:"test_case_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Severity         string `json:"severity"`
	Status           string `json:"status"`
	StepsToReproduce string `json:"steps_to_reproduce"`
	ExpectedBehavior string `json:"expected_behavior"`
	ActualBehavior   string `json:"actual_behavior"`
}

func (s *Server) handleCreateDefect(w http.ResponseWriter, r *http.Request) {
	var req createDefectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid defect payload")
		return
	}

	id, err := s.uat.CreateDefect(r.Context(), ports.DefectCreate{
		ServiceID:        req.ServiceID,
		TestCaseID:       req.TestCaseID,
		Title:            req.Title,
		Description:      req.Description,
		Severity:         req.Severity,
		Status:           req.Status,
		StepsToReproduce: req.StepsToReproduce,
		ExpectedBehavior: req.ExpectedBehavior,
		ActualBehavior:   req.ActualBehavior,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uint{"id": id})
}

type updateDefectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
}

func (s *Server) handleUpdateDefect(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, chi.URLParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateDefectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid defect payload")
		return
	}

	err = s.uat.UpdateDefect(r.Context(), id, ports.DefectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Status:      req.Status,
	})
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteDefect(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, chi.URLParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.uat.DeleteDefect(r.Context(), id); err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type defectBatchRequest struct {
	Edits []defectEditPayload `json:"edits"`
}

type defectEditPayload struct {
	ID       uint   `json:"id"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Delete   bool   `json:"delete"`
}

func (s *Server) handleDefectBatch(w http.ResponseWriter, r *http.Request) {
	var req defectBatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch payload")
		return
	}

	edits := make([]uatuc.DefectEdit, 0, len(req.Edits))
	for _, edit := range req.Edits {
		edits = append(edits, uatuc.DefectEdit{
			ID:       edit.ID,
			Severity: edit.Severity,
			Status:   edit.Status,
			Delete:   edit.Delete,
		})
	}

	result, err := s.uat.SaveDefectBatch(r.Context(), edits)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Updated: result.Updated, Deleted: result.Deleted})
}

func (s *Server) handleTestCasesExportCSV(w http.ResponseWriter, r *http.Request) {
	serviceID, err := queryServiceID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.uat.ListTestCases(r.Context(), serviceID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := analyticsuc.WriteTestCasesCSV(&buf, rows); err != nil {
		respondRenderError(r.Context(), w, err)
		return
	}
	serveDownload(w, "test_cases.csv", "text/csv", buf.Bytes())
}

func (s *Server) handleDefectsExportCSV(w http.ResponseWriter, r *http.Request) {
	serviceID, err := queryServiceID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.uat.ListDefects(r.Context(), serviceID)
	if err != nil {
		respondError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := analyticsuc.WriteDefectsCSV(&buf, rows); err != nil {
		respondRenderError(r.Context(), w, err)
		return
	}
	serveDownload(w, "defects.csv", "text/csv", buf.Bytes())
}
