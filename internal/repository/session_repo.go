package repository

import (
	"context"
	"errors"
	"time"

	"estateauth/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.LoginSession) error
	FindByID(ctx context.Context, sessionID uuid.UUID) (*entity.LoginSession, error)
	FindActive(ctx context.Context, sessionID, userID uuid.UUID) (*entity.LoginSession, error)
	Touch(ctx context.Context, sessionID uuid.UUID) error
	Close(ctx context.Context, sessionID uuid.UUID) error
	CloseAllByUser(ctx context.Context, userID uuid.UUID, platform entity.Platform) (int64, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]entity.LoginSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *entity.LoginSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepository) FindByID(ctx context.Context, sessionID uuid.UUID) (*entity.LoginSession, error) {
	var session entity.LoginSession
	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) FindActive(ctx context.Context, sessionID, userID uuid.UUID) (*entity.LoginSession, error) {
	var session entity.LoginSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active = true", sessionID, userID).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

// Touch is best effort; auth decisions never depend on it.
func (r *sessionRepository) Touch(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.LoginSession{}).
		Where("id = ?", sessionID).
		Update("last_accessed_at", time.Now()).
		Error
}

// Close is idempotent: closing an already-closed session matches no
// rows and succeeds.
func (r *sessionRepository) Close(ctx context.Context, sessionID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.LoginSession{}).
		Where("id = ? AND is_active = true", sessionID).
		Updates(map[string]any{"is_active": false, "logged_out_at": &now}).
		Error
}

func (r *sessionRepository) CloseAllByUser(ctx context.Context, userID uuid.UUID, platform entity.Platform) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.LoginSession{}).
		Where("user_id = ? AND platform = ? AND is_active = true", userID, platform).
		Updates(map[string]any{"is_active": false, "logged_out_at": &now})
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]entity.LoginSession, error) {
	var sessions []entity.LoginSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
