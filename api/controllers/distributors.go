package controllers

import (
	"net/http"

	"github.com/apexbill/apexbill-backend/api/responses"
	"github.com/apexbill/apexbill-backend/api/validators"
	"github.com/apexbill/apexbill-backend/internal/distributors"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
	"github.com/apexbill/apexbill-backend/pkg/logger"
)

// DistributorCreate registers a new distributor.
func DistributorCreate(svc distributors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "distributor service unavailable"))
			return
		}

		var body distributors.CreateDistributorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.Name = validators.SanitizeString(body.Name, 255)

		distributor, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, distributor)
	}
}

// DistributorUpdateDetails changes a distributor's payment terms.
func DistributorUpdateDetails(svc distributors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "distributor service unavailable"))
			return
		}

		distributorID, err := validators.ParseUUIDParam(r, "distributorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body distributors.UpdateDistributorDetailsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		distributor, err := svc.UpdateDetails(r.Context(), distributorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, distributor)
	}
}

// DistributorDelete soft-deletes a distributor.
func DistributorDelete(svc distributors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "distributor service unavailable"))
			return
		}

		distributorID, err := validators.ParseUUIDParam(r, "distributorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Delete(r.Context(), distributorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
