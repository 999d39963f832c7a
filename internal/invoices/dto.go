package invoices

import (
	"time"

	"github.com/google/uuid"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
)

// InvoiceItemRequest is one line of a new invoice.
type InvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateInvoiceRequest bills a business on behalf of a distributor.
type CreateInvoiceRequest struct {
	BusinessID    uuid.UUID            `json:"business_id" validate:"required"`
	DistributorID uuid.UUID            `json:"distributor_id" validate:"required"`
	Items         []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemDTO is one priced line of an invoice. Price is the snapshot
// taken at creation time as a decimal string.
type InvoiceItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
}

// InvoiceDTO is the transport shape for an invoice.
type InvoiceDTO struct {
	ID            uuid.UUID           `json:"id"`
	BusinessID    uuid.UUID           `json:"business_id"`
	DistributorID uuid.UUID           `json:"distributor_id"`
	Status        enums.InvoiceStatus `json:"status"`
	DueBy         time.Time           `json:"due_by"`
	Items         []InvoiceItemDTO    `json:"items"`
}

// InvoiceStatusResult confirms a paid/unpaid transition.
type InvoiceStatusResult struct {
	Message   string              `json:"message"`
	InvoiceID uuid.UUID           `json:"invoice_id"`
	Status    enums.InvoiceStatus `json:"status"`
}

// DeleteInvoiceResult confirms a soft delete.
type DeleteInvoiceResult struct {
	Message   string    `json:"message"`
	InvoiceID uuid.UUID `json:"invoice_id"`
}

func FromModel(inv *models.Invoice) *InvoiceDTO {
	if inv == nil {
		return nil
	}
	dto := &InvoiceDTO{
		ID:            inv.ID,
		BusinessID:    inv.BusinessID,
		DistributorID: inv.DistributorID,
		Status:        inv.Status,
		DueBy:         inv.DueBy,
		Items:         make([]InvoiceItemDTO, 0, len(inv.Items)),
	}
	for _, item := range inv.Items {
		dto.Items = append(dto.Items, InvoiceItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	return dto
}
