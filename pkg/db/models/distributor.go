package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Distributor supplies products and bills businesses on payment terms
// expressed in days.
type Distributor struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;type:text;not null;uniqueIndex"`
	PaymentTerms int            `gorm:"column:payment_terms;not null;default:0"`
	Businesses   []Business     `gorm:"many2many:business_distributors"`
	Products     []Product      `gorm:"foreignKey:DistributorID"`
	Invoices     []Invoice      `gorm:"foreignKey:DistributorID"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
