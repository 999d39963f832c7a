package distributors

import (
	"github.com/google/uuid"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// CreateDistributorRequest names a distributor and its payment terms in days.
type CreateDistributorRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=255"`
	PaymentTerms int    `json:"payment_terms" validate:"gte=0"`
}

// UpdateDistributorDetailsRequest changes a distributor's payment terms.
type UpdateDistributorDetailsRequest struct {
	PaymentTerms int `json:"payment_terms" validate:"gte=0"`
}

// BusinessRef identifies a business associated with a distributor.
type BusinessRef struct {
	ID uuid.UUID `json:"id"`
}

// ProductRef identifies a product in a distributor's catalog.
type ProductRef struct {
	ID uuid.UUID `json:"id"`
}

// InvoiceRef identifies an invoice issued by a distributor.
type InvoiceRef struct {
	ID uuid.UUID `json:"id"`
}

// DistributorDTO is the transport shape for a distributor.
type DistributorDTO struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	PaymentTerms int           `json:"payment_terms"`
	Businesses   []BusinessRef `json:"businesses"`
	Products     []ProductRef  `json:"products"`
	Invoices     []InvoiceRef  `json:"invoices"`
}

// DeleteDistributorResult confirms a soft delete.
type DeleteDistributorResult struct {
	Message       string    `json:"message"`
	DistributorID uuid.UUID `json:"distributor_id"`
}

func FromModel(d *models.Distributor) *DistributorDTO {
	if d == nil {
		return nil
	}
	dto := &DistributorDTO{
		ID:           d.ID,
		Name:         d.Name,
		PaymentTerms: d.PaymentTerms,
		Businesses:   make([]BusinessRef, 0, len(d.Businesses)),
		Products:     make([]ProductRef, 0, len(d.Products)),
		Invoices:     make([]InvoiceRef, 0, len(d.Invoices)),
	}
	for _, b := range d.Businesses {
		dto.Businesses = append(dto.Businesses, BusinessRef{ID: b.ID})
	}
	for _, p := range d.Products {
		dto.Products = append(dto.Products, ProductRef{ID: p.ID})
	}
	for _, inv := range d.Invoices {
		dto.Invoices = append(dto.Invoices, InvoiceRef{ID: inv.ID})
	}
	return dto
}
