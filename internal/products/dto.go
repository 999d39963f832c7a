package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// CreateProductRequest adds a catalog entry to a distributor.
type CreateProductRequest struct {
	DistributorID uuid.UUID       `json:"distributor_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	Price         decimal.Decimal `json:"price" validate:"required"`
}

// UpdateProductDetailsRequest changes a product's list price.
type UpdateProductDetailsRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}

// ProductDTO is the transport shape for a product. Price is rendered as a
// decimal string to avoid float precision loss on the wire.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	DistributorID uuid.UUID `json:"distributor_id"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
}

// DeleteProductResult confirms a soft delete.
type DeleteProductResult struct {
	Message   string    `json:"message"`
	ProductID uuid.UUID `json:"product_id"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:            p.ID,
		DistributorID: p.DistributorID,
		Name:          p.Name,
		Price:         p.Price.String(),
	}
}
