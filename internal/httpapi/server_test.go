package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"pulseboard/internal/auth"
	"pulseboard/internal/infrastructure/persistence/sqlite/model"
	"pulseboard/internal/infrastructure/persistence/sqlite/repository"
	"pulseboard/internal/infrastructure/persistence/sqlite/uow"
	"pulseboard/internal/infrastructure/render/pdf"
	"pulseboard/internal/ports"
	analyticsuc "pulseboard/internal/usecase/analytics"
	dashboarduc "pulseboard/internal/usecase/dashboard"
	reportuc "pulseboard/internal/usecase/report"
	uatuc "pulseboard/internal/usecase/uat"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]ports.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]ports.Session{}}
}

func (m *memorySessionStore) Put(_ context.Context, session ports.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.Token] = session
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, token string) (ports.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, found := m.sessions[token]
	return session, found, nil
}

func (m *memorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memorySessionStore) PurgeExpired(_ context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	return nil
}

type serverFixture struct {
	server   *Server
	db       *gorm.DB
	sessions *memorySessionStore
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "httpapi_test.sqlite")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.Service{},
		&model.Event{},
		&model.TestCase{},
		&model.Defect{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	services := repository.NewServiceRepository(db)
	events := repository.NewEventRepository(db)
	testCases := repository.NewTestCaseRepository(db)
	defects := repository.NewDefectRepository(db)
	users := repository.NewUserRepository(db)
	unitOfWork := uow.NewUnitOfWork(db)

	analyticsSvc := analyticsuc.NewService(events, services)
	uatSvc := uatuc.NewService(testCases, defects, unitOfWork)
	dashboardSvc := dashboarduc.NewService(services, events, testCases, defects)
	profile, err := reportuc.LoadProfile("")
	if err != nil {
		t.Fatalf("load report profile: %v", err)
	}
	reportSvc := reportuc.NewService(
		profile,
		analyticsSvc,
		testCases,
		defects,
		pdf.NewRenderer(""),
	)

	sessions := newMemorySessionStore()
	server := NewServer(
		auth.NewAuthenticator(users),
		sessions,
		time.Hour,
		dashboardSvc,
		analyticsSvc,
		uatSvc,
		reportSvc,
	)

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := users.Create(context.Background(), "ana", hash, string(auth.RoleAnalyst)); err != nil {
		t.Fatalf("create analyst: %v", err)
	}
	if err := users.Create(context.Background(), "vera", hash, string(auth.RoleViewer)); err != nil {
		t.Fatalf("create viewer: %v", err)
	}

	return &serverFixture{server: server, db: db, sessions: sessions}
}

func (f *serverFixture) login(t *testing.T, handler http.Handler, username string) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(loginRequest{Username: username, Password: "secret"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response has no session cookie")
	return nil
}

func TestHealthzIsOpen(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()

	body, _ := json.Marshal(loginRequest{Username: "ana", Password: "wrong"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", rec.Code)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard status = %d, want 401", rec.Code)
	}
}

func TestViewerCannotMutate(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "vera")

	body, _ := json.Marshal(createServiceRequest{Name: "Portal", Channel: "web"})
	req := httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create service status = %d, want 403", rec.Code)
	}
}

func TestServiceAndEventFlow(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "ana")

	body, _ := json.Marshal(createServiceRequest{Name: "Portal", Channel: "web"})
	req := httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create service status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created servicePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode service: %v", err)
	}

	journeyTime := 12.5
	eventBody, _ := json.Marshal(recordEventRequest{
		ServiceID:   created.ID,
		Action:      "login",
		Status:      "success",
		JourneyTime: &journeyTime,
	})
	req = httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(eventBody))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record event status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics status = %d, body %s", rec.Code, rec.Body.String())
	}

	var overview analyticsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &overview); err != nil {
		t.Fatalf("decode analytics: %v", err)
	}
	if overview.KPI.TotalEvents != 1 {
		t.Fatalf("TotalEvents = %d, want 1", overview.KPI.TotalEvents)
	}
	if overview.KPI.CompletionRate != 100.0 {
		t.Fatalf("CompletionRate = %v, want 100", overview.KPI.CompletionRate)
	}
}

func TestAnalyticsRejectsInvertedDates(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "ana")

	req := httptest.NewRequest(http.MethodGet, "/api/analytics?start=2026-02-01&end=2026-01-01", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("analytics status = %d, want 400", rec.Code)
	}
}

func TestTestCaseBatchEndpoint(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "ana")

	body, _ := json.Marshal(createServiceRequest{Name: "Portal", Channel: "web"})
	req := httptest.NewRequest(http.MethodPost, "/api/services", bytes.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var service servicePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &service); err != nil {
		t.Fatalf("decode service: %v", err)
	}

	ids := make([]uint, 0, 3)
	for i := 0; i < 3; i++ {
		tcBody, _ := json.Marshal(createTestCaseRequest{
			ServiceID:      service.ID,
			Title:          fmt.Sprintf("Case %d", i),
			ExpectedResult: "works",
			Status:         "Not Started",
		})
		req = httptest.NewRequest(http.MethodPost, "/api/testcases", bytes.NewReader(tcBody))
		req.AddCookie(cookie)
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create test case status = %d, body %s", rec.Code, rec.Body.String())
		}
		var created map[string]uint
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode test case: %v", err)
		}
		ids = append(ids, created["id"])
	}

	batchBody, _ := json.Marshal(testCaseBatchRequest{Edits: []testCaseEditPayload{
		{ID: ids[0], Status: "Passed"},
		{ID: ids[1], Status: "Failed"},
		{ID: ids[2], Delete: true},
	}})
	req = httptest.NewRequest(http.MethodPost, "/api/testcases/batch", bytes.NewReader(batchBody))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("batch status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode batch result: %v", err)
	}
	if result.Updated != 2 || result.Deleted != 1 {
		t.Fatalf("batch result = %+v, want 2 updated 1 deleted", result)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/testcases", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var remaining []testCasePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &remaining); err != nil {
		t.Fatalf("decode test cases: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining test cases = %d, want 2", len(remaining))
	}
}

func TestAnalyticsCSVExport(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "vera")

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/export.csv", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("Content-Type = %q, want text/csv", got)
	}
}

func TestAnalyticsPDFExport(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "ana")

	req := httptest.NewRequest(http.MethodGet, "/api/reports/analytics.pdf", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("pdf export does not start with PDF header")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	fixture := newServerFixture(t)
	handler := fixture.server.Router()
	cookie := fixture.login(t, handler, "ana")

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard after logout status = %d, want 401", rec.Code)
	}
}
