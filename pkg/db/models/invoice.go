package models

import (
	"time"

	"github.com/apexbill/apexbill-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice bills a business on behalf of a distributor. DueBy is derived from
// the distributor's payment terms at creation time.
type Invoice struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessID    uuid.UUID           `gorm:"column:business_id;type:uuid;not null"`
	DistributorID uuid.UUID           `gorm:"column:distributor_id;type:uuid;not null"`
	Status        enums.InvoiceStatus `gorm:"column:status;type:text;not null;default:'UNPAID'"`
	DueBy         time.Time           `gorm:"column:due_by;not null"`
	Items         []InvoiceItem       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt      `gorm:"column:deleted_at;index"`
}
