package models

import (
	"time"

	"github.com/google/uuid"
)

// SetupToken is a single-use bootstrap credential that lets the named email
// create a superadmin account. It is consumed atomically with the account
// creation.
type SetupToken struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Token     string    `gorm:"column:token;type:text;not null;uniqueIndex"`
	Email     string    `gorm:"column:email;type:text;not null"`
	Used      bool      `gorm:"column:used;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
