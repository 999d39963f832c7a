package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateWithTx inserts a new user using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateUserDTO) (*models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	user := dto.ToModel()
	if err := tx.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the active user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an active user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithTx loads an active user using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithBusinessesWithTx loads an active user and their business associations.
func (r *Repository) FindByIDWithBusinessesWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var user models.User
	if err := tx.Preload("Businesses").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRoleWithTx persists a role change using the provided transaction.
func (r *Repository) UpdateRoleWithTx(tx *gorm.DB, id uuid.UUID, role enums.Role) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("role", role).Error
}

// AppendBusinessesWithTx connects the given businesses to the user.
func (r *Repository) AppendBusinessesWithTx(tx *gorm.DB, user *models.User, businessIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(businessIDs) == 0 {
		return nil
	}
	refs := make([]models.Business, len(businessIDs))
	for i, id := range businessIDs {
		refs[i] = models.Business{ID: id}
	}
	return tx.Model(user).Association("Businesses").Append(refs)
}

// RemoveBusinessesWithTx disconnects the given businesses from the user.
func (r *Repository) RemoveBusinessesWithTx(tx *gorm.DB, user *models.User, businessIDs []uuid.UUID) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(businessIDs) == 0 {
		return nil
	}
	refs := make([]models.Business, len(businessIDs))
	for i, id := range businessIDs {
		refs[i] = models.Business{ID: id}
	}
	return tx.Model(user).Association("Businesses").Delete(refs)
}
