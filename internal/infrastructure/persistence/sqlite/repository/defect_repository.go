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

type DefectRepository struct {
	db *gorm.DB
}

var _ ports.DefectRepository = (*DefectRepository)(nil)

func NewDefectRepository(db *gorm.DB) *DefectRepository {
	return &DefectRepository{db: db}
}

type defectJoinRow struct {
	model.Defect
	ServiceName string
}

func (r *DefectRepository) ListRows(ctx context.Context, serviceID *uint) ([]ports.DefectRow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Defect{}).
		Select("defects.*, services.name as service_name").
		Joins("JOIN services ON services.id = defects.service_id")
	if serviceID != nil {
		query = query.Where("defects.service_id = ?", *serviceID)
	}

	var joined []defectJoinRow
	if err := query.Order("defects.id asc").Scan(&joined).Error; err != nil {
		return nil, errs.Wrap(err, "query defects")
	}

	rows := make([]ports.DefectRow, 0, len(joined))
	for _, row := range joined {
		rows = append(rows, mapDefect(row))
	}
	return rows, nil
}

func (r *DefectRepository) Get(ctx context.Context, id uint) (ports.DefectRow, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.DefectRow{}, err
	}

	var row defectJoinRow
	if err := db.Model(&model.Defect{}).
		Select("defects.*, services.name as service_name").
		Joins("JOIN services ON services.id = defects.service_id").
		Where("defects.id = ?", id).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DefectRow{}, ports.ErrDefectNotFound
		}
		return ports.DefectRow{}, errs.Wrap(err, "query defect by id")
	}
	return mapDefect(row), nil
}

func (r *DefectRepository) Create(ctx context.Context, input ports.DefectCreate) (uint, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	row := model.Defect{
		ServiceID:        input.ServiceID,
		TestCaseID:       input.TestCaseID,
		Title:            input.Title,
		Description:      input.Description,
		Severity:         input.Severity,
		Status:           input.Status,
		StepsToReproduce: input.StepsToReproduce,
		ExpectedBehavior: input.ExpectedBehavior,
		ActualBehavior:   input.ActualBehavior,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.Create(&row).Error; err != nil {
		return 0, errs.Wrap(err, "insert defect")
	}
	return row.ID, nil
}

// Update applies field-level changes. Moving a defect into Resolved or
// Closed stamps resolved_at once; reopening clears it.
func (r *DefectRepository) Update(ctx context.Context, id uint, input ports.DefectUpdate) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	assignments := map[string]any{
		"updated_at": now,
	}
	if input.Title != nil {
		assignments["title"] = *input.Title
	}
	if input.Description != nil {
		assignments["description"] = *input.Description
	}
	if input.Severity != nil {
		assignments["severity"] = *input.Severity
	}
	if input.Status != nil {
		assignments["status"] = *input.Status
		switch *input.Status {
		case "Resolved", "Closed":
			assignments["resolved_at"] = now
		default:
			assignments["resolved_at"] = nil
		}
	}

	result := db.Model(&model.Defect{}).Where("id = ?", id).Updates(assignments)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update defect")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDefectNotFound
	}
	return nil
}

func (r *DefectRepository) Delete(ctx context.Context, id uint) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&model.Defect{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete defect")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDefectNotFound
	}
	return nil
}

func (r *DefectRepository) DeleteAll(ctx context.Context) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.Where("1 = 1").Delete(&model.Defect{}).Error; err != nil {
		return errs.Wrap(err, "delete all defects")
	}
	return nil
}

func mapDefect(row defectJoinRow) ports.DefectRow {
	return ports.DefectRow{
		ID:         row.ID,
		ServiceID:  row.ServiceID,
		Service:    row.ServiceName,
		TestCaseID: row.TestCaseID,
		Title:      row.Title,
		Severity:   row.Severity,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
		ResolvedAt: row.ResolvedAt,
	}
}
