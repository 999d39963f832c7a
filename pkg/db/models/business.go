package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a billing tenant owned by the user that created it.
type Business struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;type:text;not null;uniqueIndex"`
	OwnerID      uuid.UUID      `gorm:"column:owner_id;type:uuid;not null"`
	Distributors []Distributor  `gorm:"many2many:business_distributors"`
	Invoices     []Invoice      `gorm:"foreignKey:BusinessID"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
