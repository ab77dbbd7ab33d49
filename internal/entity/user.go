package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusDeleted  UserStatus = "deleted"
)

type AccountType string

const (
	AccountTypeStaff  AccountType = "staff"
	AccountTypeTenant AccountType = "tenant"
	AccountTypeOwner  AccountType = "owner"
)

// User is owned by the registration side of the platform; the session
// subsystem only reads it (status checks, role lookups).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:text"`
	FullName     string    `gorm:"type:varchar(150)"`
	Phone        *string   `gorm:"type:varchar(20);index"`

	OrgID       *uuid.UUID  `gorm:"type:uuid;index"`
	AccountType AccountType `gorm:"type:varchar(20);default:'staff';not null"`

	Status    UserStatus `gorm:"type:varchar(20);default:'active';not null"`
	IsDeleted bool       `gorm:"default:false;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Roles    []Role `gorm:"many2many:user_roles"`
	Sessions []LoginSession
}
