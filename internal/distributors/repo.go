package distributors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// Repository exposes distributor persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a distributors repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new distributor.
func (r *Repository) Create(ctx context.Context, name string, paymentTerms int) (*models.Distributor, error) {
	distributor := &models.Distributor{Name: name, PaymentTerms: paymentTerms}
	if err := r.db.WithContext(ctx).Create(distributor).Error; err != nil {
		return nil, err
	}
	return distributor, nil
}

// FindByID loads an active distributor.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Distributor, error) {
	var distributor models.Distributor
	if err := r.db.WithContext(ctx).First(&distributor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &distributor, nil
}

// FindByIDWithTx loads an active distributor inside the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Distributor, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var distributor models.Distributor
	if err := tx.First(&distributor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &distributor, nil
}

// FindByIDWithRelationsWithTx loads a distributor with its business and
// product associations preloaded.
func (r *Repository) FindByIDWithRelationsWithTx(tx *gorm.DB, id uuid.UUID) (*models.Distributor, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var distributor models.Distributor
	if err := tx.Preload("Businesses").Preload("Products").First(&distributor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &distributor, nil
}

// UpdatePaymentTermsWithTx updates the payment terms column only.
func (r *Repository) UpdatePaymentTermsWithTx(tx *gorm.DB, id uuid.UUID, paymentTerms int) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Distributor{}).Where("id = ?", id).UpdateColumn("payment_terms", paymentTerms).Error
}

// SoftDeleteWithTx marks the distributor as deleted.
func (r *Repository) SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Distributor{}, "id = ?", id).Error
}
