package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pulseboard/internal/errs"
	"pulseboard/internal/infrastructure/persistence/sqlite/model"
	"pulseboard/internal/ports"
)

type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (ports.UserRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.UserRecord{}, err
	}

	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return ports.UserRecord{}, errors.New("username is required")
	}

	var row model.User
	if err := db.Where("username = ?", trimmed).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserRecord{}, ports.ErrUserNotFound
		}
		return ports.UserRecord{}, errs.Wrap(err, "query user by username")
	}

	return ports.UserRecord{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, username, passwordHash, role string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert user")
	}
	return nil
}
