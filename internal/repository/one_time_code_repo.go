package repository

import (
	"context"
	"errors"
	"time"

	"estateauth/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OneTimeCodeRepository interface {
	Create(ctx context.Context, code *entity.OneTimeCode) error
	FindLatestPending(ctx context.Context, identifier string) (*entity.OneTimeCode, error)
	Consume(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpired(ctx context.Context, olderThan time.Duration) error
}

type oneTimeCodeRepository struct {
	db *gorm.DB
}

func NewOneTimeCodeRepository(db *gorm.DB) OneTimeCodeRepository {
	return &oneTimeCodeRepository{db: db}
}

func (r *oneTimeCodeRepository) Create(ctx context.Context, c *entity.OneTimeCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *oneTimeCodeRepository) FindLatestPending(ctx context.Context, identifier string) (*entity.OneTimeCode, error) {
	var code entity.OneTimeCode
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND consumed_at IS NULL", identifier).
		Order("created_at DESC").
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &code, err
}

// Consume marks the code used. The unconsumed guard in the WHERE
// clause makes the write single-shot: a second consume of the same row
// matches nothing and reports false.
func (r *oneTimeCodeRepository) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entity.OneTimeCode{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", &now)
	return result.RowsAffected > 0, result.Error
}

// DeleteExpired exists for an operator cron; nothing in-process
// schedules it. Expiry is enforced at verification time.
func (r *oneTimeCodeRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.OneTimeCode{}).
		Error
}
