package businesses

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

const businessesNameConstraint = "idx_businesses_name"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type businessRepository interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Business, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Business, error)
	FindByIDWithDistributorsWithTx(tx *gorm.DB, id uuid.UUID) (*models.Business, error)
	AppendDistributorsWithTx(tx *gorm.DB, business *models.Business, distributorIDs []uuid.UUID) error
	SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

// Service exposes the business management operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateBusinessRequest) (*BusinessDTO, error)
	UpdateDistributors(ctx context.Context, businessID uuid.UUID, req UpdateBusinessDistributorsRequest) (*BusinessDTO, error)
	Delete(ctx context.Context, businessID uuid.UUID) (*DeleteBusinessResult, error)
}

type service struct {
	repo businessRepository
	tx   txRunner
}

func NewService(repo businessRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("businesses repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, req CreateBusinessRequest) (*BusinessDTO, error) {
	business, err := s.repo.Create(ctx, req.Name, ownerID)
	if err != nil {
		if db.IsUniqueViolation(err, businessesNameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "A business with this name already exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create business")
	}
	return FromModel(business), nil
}

func (s *service) UpdateDistributors(ctx context.Context, businessID uuid.UUID, req UpdateBusinessDistributorsRequest) (*BusinessDTO, error) {
	var dto *BusinessDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		business, err := s.repo.FindByIDWithTx(tx, businessID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Business not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business")
		}

		if err := s.repo.AppendDistributorsWithTx(tx, business, req.DistributorIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "associate distributors")
		}

		updated, err := s.repo.FindByIDWithDistributorsWithTx(tx, businessID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload business")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Delete(ctx context.Context, businessID uuid.UUID) (*DeleteBusinessResult, error) {
	var result *DeleteBusinessResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDWithTx(tx, businessID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Business not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load business")
		}
		if err := s.repo.SoftDeleteWithTx(tx, businessID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete business")
		}
		result = &DeleteBusinessResult{
			Message:    fmt.Sprintf("Business %s has been soft-deleted successfully.", businessID),
			BusinessID: businessID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
