package repository

import (
	"context"
	"errors"
	"time"

	"estateauth/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	FindLiveBySession(ctx context.Context, sessionID uuid.UUID) (*entity.RefreshToken, error)
	FindLiveByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	Rotate(ctx context.Context, oldID uuid.UUID, replacement *entity.RefreshToken) error
	RevokeWithSession(ctx context.Context, token string, userID uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	CountLiveBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, t *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *refreshTokenRepository) FindLiveBySession(ctx context.Context, sessionID uuid.UUID) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND revoked = false", sessionID).
		First(&token).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &token, err
}

func (r *refreshTokenRepository) FindLiveByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	var row entity.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND revoked = false", token).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

// Rotate revokes the old token and persists its replacement in one
// transaction. The old row is locked first so that two concurrent
// refreshes from the same pre-image cannot both succeed: the loser
// re-reads the row as revoked and gets gorm.ErrRecordNotFound.
func (r *refreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, replacement *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old entity.RefreshToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND revoked = false", oldID).
			First(&old).Error; err != nil {
			return err
		}
		if err := tx.Model(&old).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(replacement).Error
	})
}

// RevokeWithSession revokes the presented token and closes its owning
// session, both or neither. gorm.ErrRecordNotFound means no live token
// of that value belongs to the user.
func (r *refreshTokenRepository) RevokeWithSession(ctx context.Context, token string, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row entity.RefreshToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ? AND revoked = false", token).
			First(&row).Error
		if err != nil {
			return err
		}

		var session entity.LoginSession
		if err := tx.Where("id = ? AND user_id = ?", row.SessionID, userID).
			First(&session).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.RefreshToken{}).
			Where("id = ?", row.ID).
			Update("revoked", true).Error; err != nil {
			return err
		}

		now := time.Now()
		return tx.Model(&entity.LoginSession{}).
			Where("id = ? AND is_active = true", row.SessionID).
			Updates(map[string]any{"is_active": false, "logged_out_at": &now}).
			Error
	})
}

func (r *refreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.RefreshToken{}).
		Where("revoked = false AND session_id IN (?)",
			r.db.Model(&entity.LoginSession{}).Select("id").Where("user_id = ?", userID),
		).
		Update("revoked", true).
		Error
}

func (r *refreshTokenRepository) CountLiveBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.RefreshToken{}).
		Where("session_id = ? AND revoked = false", sessionID).
		Count(&count).Error
	return count, err
}
