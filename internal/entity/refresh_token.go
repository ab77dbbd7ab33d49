package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the opaque long-lived secret tied to a portal
// session. At most one non-revoked row may exist per session; rotation
// appends a new row and flags the old one, so the per-session history
// is an event log of every credential the session ever held.
type RefreshToken struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Session   LoginSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	Token     string    `gorm:"type:text;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false;not null"`

	CreatedAt time.Time
}
