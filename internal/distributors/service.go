package distributors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db"
	"github.com/apexbill/apexbill-backend/pkg/db/models"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
)

const distributorsNameConstraint = "idx_distributors_name"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type distributorRepository interface {
	Create(ctx context.Context, name string, paymentTerms int) (*models.Distributor, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Distributor, error)
	FindByIDWithRelationsWithTx(tx *gorm.DB, id uuid.UUID) (*models.Distributor, error)
	UpdatePaymentTermsWithTx(tx *gorm.DB, id uuid.UUID, paymentTerms int) error
	SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

// Service exposes the distributor management operations.
type Service interface {
	Create(ctx context.Context, req CreateDistributorRequest) (*DistributorDTO, error)
	UpdateDetails(ctx context.Context, distributorID uuid.UUID, req UpdateDistributorDetailsRequest) (*DistributorDTO, error)
	Delete(ctx context.Context, distributorID uuid.UUID) (*DeleteDistributorResult, error)
}

type service struct {
	repo distributorRepository
	tx   txRunner
}

func NewService(repo distributorRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("distributors repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, req CreateDistributorRequest) (*DistributorDTO, error) {
	distributor, err := s.repo.Create(ctx, req.Name, req.PaymentTerms)
	if err != nil {
		if db.IsUniqueViolation(err, distributorsNameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "A distributor with this name already exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create distributor")
	}
	return FromModel(distributor), nil
}

func (s *service) UpdateDetails(ctx context.Context, distributorID uuid.UUID, req UpdateDistributorDetailsRequest) (*DistributorDTO, error) {
	var dto *DistributorDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDWithTx(tx, distributorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Distributor not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load distributor")
		}

		if err := s.repo.UpdatePaymentTermsWithTx(tx, distributorID, req.PaymentTerms); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment terms")
		}

		updated, err := s.repo.FindByIDWithRelationsWithTx(tx, distributorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload distributor")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Delete(ctx context.Context, distributorID uuid.UUID) (*DeleteDistributorResult, error) {
	var result *DeleteDistributorResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDWithTx(tx, distributorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Distributor not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load distributor")
		}
		if err := s.repo.SoftDeleteWithTx(tx, distributorID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete distributor")
		}
		result = &DeleteDistributorResult{
			Message:       fmt.Sprintf("Distributor %s has been soft-deleted successfully.", distributorID),
			DistributorID: distributorID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
