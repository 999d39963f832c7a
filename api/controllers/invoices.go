package controllers

import (
	"net/http"

	"github.com/apexbill/apexbill-backend/api/responses"
	"github.com/apexbill/apexbill-backend/api/validators"
	"github.com/apexbill/apexbill-backend/internal/invoices"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
	"github.com/apexbill/apexbill-backend/pkg/logger"
)

// InvoiceCreate issues a new invoice with price snapshots.
func InvoiceCreate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		var body invoices.CreateInvoiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoiceMarkPaid transitions an invoice to PAID.
func InvoiceMarkPaid(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return invoiceTransition(svc, logg, enums.InvoiceStatusPaid)
}

// InvoiceMarkUnpaid transitions an invoice back to UNPAID.
func InvoiceMarkUnpaid(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return invoiceTransition(svc, logg, enums.InvoiceStatusUnpaid)
}

func invoiceTransition(svc invoices.Service, logg *logger.Logger, target enums.InvoiceStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		invoiceID, err := validators.ParseUUIDParam(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.TransitionStatus(r.Context(), invoiceID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InvoiceDelete soft-deletes an invoice.
func InvoiceDelete(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		invoiceID, err := validators.ParseUUIDParam(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Delete(r.Context(), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
