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

type ServiceRepository struct {
	db *gorm.DB
}

var _ ports.ServiceRepository = (*ServiceRepository)(nil)

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) List(ctx context.Context) ([]ports.ServiceRef, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Service
	if err := db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query services")
	}

	refs := make([]ports.ServiceRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, ports.ServiceRef{ID: row.ID, Name: row.Name, Channel: row.Channel})
	}
	return refs, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id uint) (ports.ServiceRef, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ServiceRef{}, err
	}

	var row model.Service
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ServiceRef{}, ports.ErrServiceNotFound
		}
		return ports.ServiceRef{}, errs.Wrap(err, "query service by id")
	}
	return ports.ServiceRef{ID: row.ID, Name: row.Name, Channel: row.Channel}, nil
}

func (r *ServiceRepository) Create(ctx context.Context, input ports.ServiceCreate) (ports.ServiceRef, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ServiceRef{}, err
	}

	row := model.Service{
		Name:        input.Name,
		Channel:     input.Channel,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ServiceRef{}, errs.Wrap(err, "insert service")
	}
	return ports.ServiceRef{ID: row.ID, Name: row.Name, Channel: row.Channel}, nil
}

func (r *ServiceRepository) Count(ctx context.Context) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.Service{}).Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count services")
	}
	return count, nil
}

func (r *ServiceRepository) DeleteAll(ctx context.Context) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	if err := db.Where("1 = 1").Delete(&model.Service{}).Error; err != nil {
		return errs.Wrap(err, "delete all services")
	}
	return nil
}
