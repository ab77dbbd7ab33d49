package entity

import (
	"time"

	"github.com/google/uuid"
)

// OneTimeCode is a short-lived login code delivered out-of-band to an
// identifier (email address or phone number). Only the hash is stored;
// a consumed code can never verify again.
type OneTimeCode struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Identifier string    `gorm:"type:varchar(255);not null;index"`
	CodeHash   string    `gorm:"type:text;not null"`

	ConsumedAt *time.Time

	CreatedAt time.Time
}
