package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pulseboard/internal/errs"
	"pulseboard/internal/infrastructure/persistence/sqlite/model"
	"pulseboard/internal/ports"
)

type TestCaseRepository struct {
	db *gorm.DB
}

var _ ports.TestCaseRepository = (*TestCaseRepository)(nil)

func NewTestCaseRepository(db *gorm.DB) *TestCaseRepository {
	return &TestCaseRepository{db: db}
}

type testCaseJoinRow struct {
	model.TestCase
	ServiceName string
}

func (r *TestCaseRepository) ListRows(ctx context.Context, serviceID *uint) ([]ports.TestCaseRow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.TestCase{}).
		Select("test_cases.*, services.name as service_name").
		Joins("JOIN services ON services.id = test_cases.service_id")
	if serviceID != nil {
		query = query.Where("test_cases.service_id = ?", *serviceID)
	}

	var joined []testCaseJoinRow
	if err := query.Order("test_cases.id asc").Scan(&joined).Error; err != nil {
		return nil, errs.Wrap(err, "query test cases")
	}

	rows := make([]ports.TestCaseRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, mapTestCase(row))
	}
	return rows, nil
}

func (r *TestCaseRepository) Get(ctx context.Context, id uint) (ports.TestCaseRow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.TestCaseRow{}, err
	}

	var row testCaseJoinRow
	if err := db.Model(&model.TestCase{}).
		Select("test_cases.*, services.name as service_name").
		Joins("JOIN services ON services.id = test_cases.service_id").
		Where("test_cases.id = ?", id).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TestCaseRow{}, ports.ErrTestCaseNotFound
		}
		return ports.TestCaseRow{}, errs.Wrap(err, "query test case by id")
	}
	return mapTestCase(row), nil
}

func (r *TestCaseRepository) Create(ctx context.Context, input ports.TestCaseCreate) (uint, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	row := model.TestCase{
		ServiceID:      input.ServiceID,
		Title:          input.Title,
		Description:    input.Description,
		ExpectedResult: input.ExpectedResult,
		TestSteps:      input.TestSteps,
		Status:         input.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&row).Error; err != nil {
		return 0, errs.Wrap(err, "insert test case")
	}
	return row.ID, nil
}

func (r *TestCaseRepository) Update(ctx context.Context, id uint, input ports.TestCaseUpdate) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	assignments := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if input.Title != nil {
		assignments["title"] = *input.Title
	}
	if input.Description != nil {
		assignments["description"] = *input.Description
	}
	if input.ExpectedResult != nil {
		assignments["expected_result"] = *input.ExpectedResult
	}
	if input.TestSteps != nil {
		assignments["test_steps"] = *input.TestSteps
	}
	if input.Status != nil {
		assignments["status"] = *input.Status
	}

	result := db.Model(&model.TestCase{}).Where("id = ?", id).Updates(assignments)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update test case")
	}
	if result.RowsAffected == 0 {
		return ports.ErrTestCaseNotFound
	}
	return nil
}

func (r *TestCaseRepository) Delete(ctx context.Context, id uint) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&model.TestCase{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete test case")
	}
	if result.RowsAffected == 0 {
		return ports.ErrTestCaseNotFound
	}
	return nil
}

func (r *TestCaseRepository) DeleteAll(ctx context.Context) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.Where("1 = 1").Delete(&model.TestCase{}).Error; err != nil {
		return errs.Wrap(err, "delete all test cases")
	}
	return nil
}

func mapTestCase(row testCaseJoinRow) ports.TestCaseRow {
	return ports.TestCaseRow{
		ID:             row.ID,
		ServiceID:      row.ServiceID,
		Service:        row.ServiceName,
		Title:          row.Title,
		Description:    row.Description,
		ExpectedResult: row.ExpectedResult,
		Status:         row.Status,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
