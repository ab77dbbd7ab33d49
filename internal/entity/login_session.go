package entity

import (
	"time"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformPortal Platform = "portal"
	PlatformMobile Platform = "mobile"
)

// LoginSession records one authenticated device/app login. Rows are
// flagged inactive on logout, never deleted, so the table doubles as
// an audit trail. A new login always creates a new row.
type LoginSession struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Platform Platform `gorm:"type:varchar(20);not null"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`

	IsActive       bool `gorm:"default:true;not null;index"`
	LastAccessedAt time.Time
	LoggedOutAt    *time.Time

	CreatedAt time.Time

	RefreshTokens []RefreshToken `gorm:"foreignKey:SessionID"`
}
