package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pulseboard/internal/errs"
	"pulseboard/internal/infrastructure/persistence/sqlite/model"
	"pulseboard/internal/ports"
)

// SQLiteStore keeps login sessions in the application database so they
// survive process restarts.
type SQLiteStore struct {
	db *gorm.DB
}

var _ ports.SessionStore = (*SQLiteStore)(nil)

func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Put(ctx context.Context, session ports.Session) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	token := strings.TrimSpace(session.Token)
	if token == "" {
		return errors.New("session token is required")
	}

	row := model.Session{
		Token:     token,
		Username:  session.Username,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]any{
			"username":   row.Username,
			"role":       row.Role,
			"expires_at": row.ExpiresAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert session")
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, token string) (ports.Session, bool, error) {
	if ctx == nil {
		return ports.Session{}, false, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Session{}, false, errs.Wrap(err, "check context")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ports.Session{}, false, nil
	}

	var row model.Session
	if err := s.db.WithContext(ctx).Where("token = ?", trimmed).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Session{}, false, nil
		}
		return ports.Session{}, false, errs.Wrap(err, "query session by token")
	}

	if !row.ExpiresAt.After(time.Now()) {
		// Expired rows are lazily removed on read.
		_ = s.db.WithContext(ctx).Where("token = ?", trimmed).Delete(&model.Session{}).Error
		return ports.Session{}, false, nil
	}

	return ports.Session{
		Token:     row.Token,
		Username:  row.Username,
		Role:      row.Role,
		ExpiresAt: row.ExpiresAt,
	}, true, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil
	}

	if err := s.db.WithContext(ctx).Where("token = ?", trimmed).Delete(&model.Session{}).Error; err != nil {
		return errs.Wrap(err, "delete session")
	}
	return nil
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context, now time.Time) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	if err := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Session{}).Error; err != nil {
		return errs.Wrap(err, "purge expired sessions")
	}
	return nil
}
