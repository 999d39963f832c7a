package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error)
	FindByIDWithBusinessesWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error)
	UpdateRoleWithTx(tx *gorm.DB, id uuid.UUID, role enums.Role) error
	AppendBusinessesWithTx(tx *gorm.DB, user *models.User, businessIDs []uuid.UUID) error
	RemoveBusinessesWithTx(tx *gorm.DB, user *models.User, businessIDs []uuid.UUID) error
}

type businessCounter interface {
	CountByIDsWithTx(tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

// Service exposes user role and association management.
type Service interface {
	Promote(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	Demote(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	AssociateBusinesses(ctx context.Context, userID uuid.UUID, businessIDs []uuid.UUID) (*UserDTO, error)
	RemoveBusinessAssociations(ctx context.Context, userID uuid.UUID, businessIDs []uuid.UUID) (*UserDTO, error)
	UpdateBusinessAssociations(ctx context.Context, userID uuid.UUID, toAdd, toRemove []uuid.UUID) (*UserDTO, error)
}

type service struct {
	repo       userRepository
	businesses businessCounter
	tx         txRunner
}

// NewService builds a users service with the provided dependencies.
func NewService(repo userRepository, businesses businessCounter, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if businesses == nil {
		return nil, fmt.Errorf("business counter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, businesses: businesses, tx: tx}, nil
}

func (s *service) Promote(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	var dto *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.repo.FindByIDWithTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		if user.Role == enums.RoleAdmin || user.Role == enums.RoleSuperAdmin {
			return pkgerrors.New(pkgerrors.CodeBadRequest, "User already has admin privileges.")
		}
		if err := s.repo.UpdateRoleWithTx(tx, userID, enums.RoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote user")
		}
		updated, err := s.repo.FindByIDWithTx(tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Demote(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	var dto *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.repo.FindByIDWithTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "User not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		if user.Role == enums.RoleSuperAdmin {
			return pkgerrors.New(pkgerrors.CodeForbidden, "SuperAdmin users cannot be demoted.")
		}
		if err := s.repo.UpdateRoleWithTx(tx, userID, enums.RoleUser); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "demote user")
		}
		updated, err := s.repo.FindByIDWithTx(tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) AssociateBusinesses(ctx context.Context, userID uuid.UUID, businessIDs []uuid.UUID) (*UserDTO, error) {
	var dto *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.repo.FindByIDWithTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		count, err := s.businesses.CountByIDsWithTx(tx, businessIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count businesses")
		}
		if count != int64(len(businessIDs)) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "One or more businesses not found")
		}

		if err := s.repo.AppendBusinessesWithTx(tx, user, businessIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "associate businesses")
		}

		updated, err := s.repo.FindByIDWithBusinessesWithTx(tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) RemoveBusinessAssociations(ctx context.Context, userID uuid.UUID, businessIDs []uuid.UUID) (*UserDTO, error) {
	var dto *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.repo.FindByIDWithBusinessesWithTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		if !allAssociated(user.Businesses, businessIDs) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "One or more businesses to remove not found in user's current associations")
		}

		if err := s.repo.RemoveBusinessesWithTx(tx, user, businessIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove associations")
		}

		updated, err := s.repo.FindByIDWithBusinessesWithTx(tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) UpdateBusinessAssociations(ctx context.Context, userID uuid.UUID, toAdd, toRemove []uuid.UUID) (*UserDTO, error) {
	var dto *UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.repo.FindByIDWithBusinessesWithTx(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}
		preAddition := user.Businesses

		if len(toAdd) > 0 {
			count, err := s.businesses.CountByIDsWithTx(tx, toAdd)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count businesses")
			}
			if count != int64(len(toAdd)) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "One or more businesses to add not found")
			}
			if err := s.repo.AppendBusinessesWithTx(tx, user, toAdd); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "associate businesses")
			}
		}

		// Removal validation runs against the association snapshot loaded
		// before the additions above were applied.
		if len(toRemove) > 0 {
			if !allAssociated(preAddition, toRemove) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "One or more businesses to remove not found in user's current associations")
			}
			if err := s.repo.RemoveBusinessesWithTx(tx, user, toRemove); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove associations")
			}
		}

		updated, err := s.repo.FindByIDWithBusinessesWithTx(tx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
		}
		dto = FromModel(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func allAssociated(current []models.Business, requested []uuid.UUID) bool {
	associated := make(map[uuid.UUID]struct{}, len(current))
	for _, b := range current {
		associated[b.ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := associated[id]; !ok {
			return false
		}
	}
	return true
}
