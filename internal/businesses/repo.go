package businesses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// Repository exposes business persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a businesses repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new business owned by the given user.
func (r *Repository) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Business, error) {
	business := &models.Business{Name: name, OwnerID: ownerID}
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// FindByIDWithTx loads an active business inside the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Business, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var business models.Business
	if err := tx.First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByIDWithDistributorsWithTx loads an active business with its
// distributor associations preloaded.
func (r *Repository) FindByIDWithDistributorsWithTx(tx *gorm.DB, id uuid.UUID) (*models.Business, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var business models.Business
	if err := tx.Preload("Distributors").First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// CountByIDsWithTx counts the active businesses matching the given ids.
func (r *Repository) CountByIDsWithTx(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := tx.Model(&models.Business{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AppendDistributorsWithTx creates the business-distributor join rows.
// Distributor existence is not verified here; the database enforces
// referential integrity.
func (r *Repository) AppendDistributorsWithTx(tx *gorm.DB, business *models.Business, distributorIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(distributorIDs) == 0 {
		return nil
	}
	refs := make([]models.Distributor, 0, len(distributorIDs))
	for _, id := range distributorIDs {
		refs = append(refs, models.Distributor{ID: id})
	}
	return tx.Model(business).Association("Distributors").Append(refs)
}

// SoftDeleteWithTx marks the business as deleted.
func (r *Repository) SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Business{}, "id = ?", id).Error
}
