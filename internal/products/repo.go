package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product for the given distributor.
func (r *Repository) Create(ctx context.Context, distributorID uuid.UUID, name string, price decimal.Decimal) (*models.Product, error) {
	product := &models.Product{
		DistributorID: distributorID,
		Name:          name,
		Price:         price,
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByIDWithTx loads an active product inside the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var product models.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdatePriceWithTx updates the price column only.
func (r *Repository) UpdatePriceWithTx(tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Product{}).Where("id = ?", id).UpdateColumn("price", price).Error
}

// SoftDeleteWithTx marks the product as deleted.
func (r *Repository) SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Delete(&models.Product{}, "id = ?", id).Error
}

// PricesByIDsWithTx resolves current list prices for the given active
// products, keyed by product id.
func (r *Repository) PricesByIDsWithTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}
	var rows []models.Product
	if err := tx.Select("id", "price").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		prices[row.ID] = row.Price
	}
	return prices, nil
}
