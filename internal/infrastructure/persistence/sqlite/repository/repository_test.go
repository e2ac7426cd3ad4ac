package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"pulseboard/internal/infrastructure/persistence/sqlite/model"
	"pulseboard/internal/ports"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "repository.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.User{},
		&model.Service{},
		&model.Event{},
		&model.TestCase{},
		&model.Defect{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func createService(t *testing.T, repo *ServiceRepository, name, channel string) ports.ServiceRef {
	t.Helper()
	ref, err := repo.Create(context.Background(), ports.ServiceCreate{Name: name, Channel: channel})
	if err != nil {
		t.Fatalf("create service %q: %v", name, err)
	}
	return ref
}

func TestServiceRepositoryCreateAndList(t *testing.T) {
	db := setupDB(t)
	repo := NewServiceRepository(db)
	ctx := context.Background()

	createService(t, repo, "Portal", "web")
	createService(t, repo, "Mobile App", "mobile")

	refs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("List() returned %d services, want 2", len(refs))
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("Count() = %d, want 2", count)
	}
}

func TestServiceRepositoryGetNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewServiceRepository(db)

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, ports.ErrServiceNotFound) {
		t.Fatalf("Get() error = %v, want ErrServiceNotFound", err)
	}
}

func TestEventRepositoryJoinsServiceColumns(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	events := NewEventRepository(db)
	ctx := context.Background()

	ref := createService(t, services, "Portal", "web")
	journeyTime := 12.5
	err := events.Create(ctx, ports.EventCreate{
		ServiceID:   ref.ID,
		Action:      "login",
		Status:      "success",
		Timestamp:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		JourneyTime: &journeyTime,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	rows, err := events.ListRows(ctx, ports.EventFilter{})
	if err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListRows() returned %d rows, want 1", len(rows))
	}
	if rows[0].Service != "Portal" || rows[0].Channel != "web" {
		t.Fatalf("joined service = %q/%q, want Portal/web", rows[0].Service, rows[0].Channel)
	}
	if rows[0].JourneyTime == nil || *rows[0].JourneyTime != journeyTime {
		t.Fatalf("JourneyTime = %v, want %v", rows[0].JourneyTime, journeyTime)
	}
}

func TestEventRepositoryEndDateIsInclusive(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	events := NewEventRepository(db)
	ctx := context.Background()

	ref := createService(t, services, "Portal", "web")
	stamps := []time.Time{
		time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC),
		time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	for _, stamp := range stamps {
		if err := events.Create(ctx, ports.EventCreate{
			ServiceID: ref.ID,
			Action:    "login",
			Status:    "success",
			Timestamp: stamp,
		}); err != nil {
			t.Fatalf("Create(%v) error = %v", stamp, err)
		}
	}

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rows, err := events.ListRows(ctx, ports.EventFilter{Start: &day, End: &day})
	if err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListRows() returned %d rows, want the 2 events on the end day", len(rows))
	}
	for _, row := range rows {
		if row.Timestamp.UTC().Day() != 10 {
			t.Fatalf("row timestamp %v is outside the requested day", row.Timestamp)
		}
	}
}

func TestEventRepositoryFiltersByService(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	events := NewEventRepository(db)
	ctx := context.Background()

	portal := createService(t, services, "Portal", "web")
	mobile := createService(t, services, "Mobile", "mobile")

	for _, ref := range []ports.ServiceRef{portal, portal, mobile} {
		if err := events.Create(ctx, ports.EventCreate{
			ServiceID: ref.ID,
			Action:    "login",
			Status:    "success",
			Timestamp: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	rows, err := events.ListRows(ctx, ports.EventFilter{ServiceID: &portal.ID})
	if err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListRows() returned %d rows, want 2 portal events", len(rows))
	}
}

func TestEventRepositoryCreateBatch(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	events := NewEventRepository(db)
	ctx := context.Background()

	ref := createService(t, services, "Portal", "web")
	inputs := make([]ports.EventCreate, 0, 50)
	for i := 0; i < 50; i++ {
		inputs = append(inputs, ports.EventCreate{
			ServiceID: ref.ID,
			Action:    "login",
			Status:    "success",
			Timestamp: time.Now().UTC(),
		})
	}
	if err := events.CreateBatch(ctx, inputs); err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}

	rows, err := events.ListRows(ctx, ports.EventFilter{})
	if err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}
	if len(rows) != 50 {
		t.Fatalf("ListRows() returned %d rows, want 50", len(rows))
	}
}

func TestTestCaseRepositoryUpdateTouchesUpdatedAt(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	testCases := NewTestCaseRepository(db)
	ctx := context.Background()

	ref := createService(t, services, "Portal", "web")
	id, err := testCases.Create(ctx, ports.TestCaseCreate{
		ServiceID:      ref.ID,
		Title:          "Login flow",
		ExpectedResult: "logged in",
		Status:         "Not Started",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	before, err := testCases.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	status := "Passed"
	if err := testCases.Update(ctx, id, ports.TestCaseUpdate{Status: &status}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	after, err := testCases.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if after.Status != "Passed" {
		t.Fatalf("Status = %q, want Passed", after.Status)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("UpdatedAt was not advanced: before %v, after %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestTestCaseRepositoryUpdateMissingRow(t *testing.T) {
	db := setupDB(t)
	testCases := NewTestCaseRepository(db)

	status := "Passed"
	err := testCases.Update(context.Background(), 99, ports.TestCaseUpdate{Status: &status})
	if !errors.Is(err, ports.ErrTestCaseNotFound) {
		t.Fatalf("Update() error = %v, want ErrTestCaseNotFound", err)
	}
}

func TestDefectRepositoryResolvedAtLifecycle(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	defects := NewDefectRepository(db)
	ctx := context.Background()

	ref := createService(t, services, "Portal", "web")
	id, err := defects.Create(ctx, ports.DefectCreate{
		ServiceID:   ref.ID,
		Title:       "Login timeout",
		Description: "timeouts during login",
		Severity:    "High",
		Status:      "Open",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	status := "Resolved"
	if err := defects.Update(ctx, id, ports.DefectUpdate{Status: &status}); err != nil {
		t.Fatalf("Update() to Resolved error = %v", err)
	}
	row, err := defects.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if row.ResolvedAt == nil {
		t.Fatal("ResolvedAt is nil after resolving")
	}

	status = "Open"
	if err := defects.Update(ctx, id, ports.DefectUpdate{Status: &status}); err != nil {
		t.Fatalf("Update() back to Open error = %v", err)
	}
	row, err = defects.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if row.ResolvedAt != nil {
		t.Fatalf("ResolvedAt = %v after reopening, want nil", row.ResolvedAt)
	}
}

func TestDefectRepositoryDelete(t *testing.T) {
	db := setupDB(t)
	services := NewServiceRepository(db)
	defects := NewDefectRepository(db)
	ctx := context.Background()

	ref := createService(t, services, "Portal", "web")
	id, err := defects.Create(ctx, ports.DefectCreate{
		ServiceID:   ref.ID,
		Title:       "Crash",
		Description: "crash on open",
		Severity:    "Critical",
		Status:      "Open",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := defects.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := defects.Get(ctx, id); !errors.Is(err, ports.ErrDefectNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrDefectNotFound", err)
	}
	if err := defects.Delete(ctx, id); !errors.Is(err, ports.ErrDefectNotFound) {
		t.Fatalf("Delete() twice error = %v, want ErrDefectNotFound", err)
	}
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	if err := users.Create(ctx, "ana", "hash", "Analyst"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	record, err := users.GetByUsername(ctx, "ana")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if record.Role != "Analyst" || record.PasswordHash != "hash" {
		t.Fatalf("record = %+v, want Analyst/hash", record)
	}

	if _, err := users.GetByUsername(ctx, "nobody"); !errors.Is(err, ports.ErrUserNotFound) {
		t.Fatalf("GetByUsername() error = %v, want ErrUserNotFound", err)
	}
}
