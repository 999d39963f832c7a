package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a distributor's catalog entry. Price is the current list price;
// invoices snapshot it at creation time rather than referencing it.
type Product struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DistributorID uuid.UUID       `gorm:"column:distributor_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;type:text;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}
