package invoices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
)

// Repository exposes invoice persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an invoices repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts the invoice together with its items. GORM persists the
// Items slice in the same statement batch, so the insert is atomic within the
// transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, invoice *models.Invoice) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(invoice).Error
}

// FindByID loads an active invoice without its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindByIDWithTx loads an active invoice inside the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Invoice, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var invoice models.Invoice
	if err := tx.First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateStatusWithTx updates the status column only.
func (r *Repository) UpdateStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.InvoiceStatus) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Invoice{}).Where("id = ?", id).UpdateColumn("status", status).Error
}

// SoftDelete marks the invoice as deleted. Items stay untouched; they remain
// the historical record of what was billed.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id).Error
}
