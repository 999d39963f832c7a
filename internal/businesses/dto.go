package businesses

import (
	"github.com/google/uuid"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// CreateBusinessRequest names the tenant being onboarded.
type CreateBusinessRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// UpdateBusinessDistributorsRequest associates distributors with a business.
type UpdateBusinessDistributorsRequest struct {
	DistributorIDs []uuid.UUID `json:"distributor_ids" validate:"required,min=1"`
}

// DistributorRef is the trimmed distributor shape embedded in business
// responses.
type DistributorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// InvoiceRef identifies an invoice belonging to a business.
type InvoiceRef struct {
	ID uuid.UUID `json:"id"`
}

// BusinessDTO is the transport shape for a business.
type BusinessDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Distributors []DistributorRef `json:"distributors"`
	Invoices     []InvoiceRef     `json:"invoices"`
}

// DeleteBusinessResult confirms a soft delete.
type DeleteBusinessResult struct {
	Message    string    `json:"message"`
	BusinessID uuid.UUID `json:"business_id"`
}

func FromModel(b *models.Business) *BusinessDTO {
	if b == nil {
		return nil
	}
	dto := &BusinessDTO{
		ID:           b.ID,
		Name:         b.Name,
		Distributors: make([]DistributorRef, 0, len(b.Distributors)),
		Invoices:     make([]InvoiceRef, 0, len(b.Invoices)),
	}
	for _, d := range b.Distributors {
		dto.Distributors = append(dto.Distributors, DistributorRef{ID: d.ID, Name: d.Name})
	}
	for _, inv := range b.Invoices {
		dto.Invoices = append(dto.Invoices, InvoiceRef{ID: inv.ID})
	}
	return dto
}
