package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepository interface {
	Create(ctx context.Context, distributorID uuid.UUID, name string, price decimal.Decimal) (*models.Product, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Product, error)
	UpdatePriceWithTx(tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error
	SoftDeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

type distributorFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Distributor, error)
}

// Service exposes the product catalog operations.
type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	UpdateDetails(ctx context.Context, productID uuid.UUID, req UpdateProductDetailsRequest) (*ProductDTO, error)
	Delete(ctx context.Context, productID uuid.UUID) (*DeleteProductResult, error)
}

type service struct {
	repo         productRepository
	distributors distributorFinder
	tx           txRunner
}

func NewService(repo productRepository, distributors distributorFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if distributors == nil {
		return nil, fmt.Errorf("distributor finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, distributors: distributors, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if _, err := s.distributors.FindByID(ctx, req.DistributorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Distributor not found.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load distributor")
	}

	product, err := s.repo.Create(ctx, req.DistributorID, req.Name, req.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) UpdateDetails(ctx context.Context, productID uuid.UUID, req UpdateProductDetailsRequest) (*ProductDTO, error) {
	var dto *ProductDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.repo.FindByIDWithTx(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		if err := s.repo.UpdatePriceWithTx(tx, productID, req.Price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update price")
		}

		product.Price = req.Price
		dto = FromModel(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Delete(ctx context.Context, productID uuid.UUID) (*DeleteProductResult, error) {
	var result *DeleteProductResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDWithTx(tx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if err := s.repo.SoftDeleteWithTx(tx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete product")
		}
		result = &DeleteProductResult{
			Message:   fmt.Sprintf("Product %s has been soft-deleted successfully.", productID),
			ProductID: productID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
