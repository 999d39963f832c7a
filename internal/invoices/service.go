package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invoiceRepository interface {
	CreateWithTx(tx *gorm.DB, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Invoice, error)
	UpdateStatusWithTx(tx *gorm.DB, id uuid.UUID, status enums.InvoiceStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type distributorFinderWithTx interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Distributor, error)
}

type priceResolver interface {
	PricesByIDsWithTx(tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// Service exposes the invoice lifecycle operations.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceDTO, error)
	TransitionStatus(ctx context.Context, invoiceID uuid.UUID, target enums.InvoiceStatus) (*InvoiceStatusResult, error)
	Delete(ctx context.Context, invoiceID uuid.UUID) (*DeleteInvoiceResult, error)
}

type service struct {
	repo         invoiceRepository
	distributors distributorFinderWithTx
	prices       priceResolver
	tx           txRunner
	now          func() time.Time
}

func NewService(repo invoiceRepository, distributors distributorFinderWithTx, prices priceResolver, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	if distributors == nil {
		return nil, fmt.Errorf("distributor finder required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:         repo,
		distributors: distributors,
		prices:       prices,
		tx:           tx,
		now:          time.Now,
	}, nil
}

// Create issues a new UNPAID invoice. DueBy is derived from the distributor's
// payment terms, and each item snapshots the product's current list price so
// later catalog changes cannot alter what was billed.
func (s *service) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceDTO, error) {
	var dto *InvoiceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		distributor, err := s.distributors.FindByIDWithTx(tx, req.DistributorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Distributor with ID %s not found.", req.DistributorID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load distributor")
		}

		dueBy := s.now().AddDate(0, 0, distributor.PaymentTerms)

		productIDs := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		prices, err := s.prices.PricesByIDsWithTx(tx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve product prices")
		}

		items := make([]models.InvoiceItem, 0, len(req.Items))
		for _, item := range req.Items {
			price, ok := prices[item.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Price for one or more products not found.")
			}
			items = append(items, models.InvoiceItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     price,
			})
		}

		invoice := &models.Invoice{
			BusinessID:    req.BusinessID,
			DistributorID: req.DistributorID,
			Status:        enums.InvoiceStatusUnpaid,
			DueBy:         dueBy,
			Items:         items,
		}
		if err := s.repo.CreateWithTx(tx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invoice")
		}

		dto = FromModel(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// TransitionStatus flips an invoice between UNPAID and PAID. Requesting the
// status the invoice already holds is rejected.
func (s *service) TransitionStatus(ctx context.Context, invoiceID uuid.UUID, target enums.InvoiceStatus) (*InvoiceStatusResult, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("invalid invoice status %q", target))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDWithTx(tx, invoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Invoice not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
		}
		if invoice.Status == target {
			return pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("Invoice is already marked as %s.", statusWord(target)))
		}
		if err := s.repo.UpdateStatusWithTx(tx, invoiceID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update invoice status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &InvoiceStatusResult{
		Message:   fmt.Sprintf("Invoice %s has been marked as %s successfully.", invoiceID, statusWord(target)),
		InvoiceID: invoiceID,
		Status:    target,
	}, nil
}

// Delete soft-deletes an invoice. The lookup and delete run as separate
// statements without a wrapping transaction; a lost race surfaces as a no-op
// second delete.
func (s *service) Delete(ctx context.Context, invoiceID uuid.UUID) (*DeleteInvoiceResult, error) {
	if _, err := s.repo.FindByID(ctx, invoiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Invoice not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
	}
	if err := s.repo.SoftDelete(ctx, invoiceID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete invoice")
	}
	return &DeleteInvoiceResult{
		Message:   fmt.Sprintf("Invoice %s has been soft-deleted successfully.", invoiceID),
		InvoiceID: invoiceID,
	}, nil
}

func statusWord(status enums.InvoiceStatus) string {
	if status == enums.InvoiceStatusPaid {
		return "paid"
	}
	return "unpaid"
}
