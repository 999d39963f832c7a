package setuptokens

import (
	"context"

	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/pkg/db/models"
)

// Repository handles setup token persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to setup token operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create mints a fresh token for the target email and persists it unused.
func (r *Repository) Create(ctx context.Context, email string) (*models.SetupToken, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	record := &models.SetupToken{
		Token: token,
		Email: email,
		Used:  false,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindByTokenWithTx loads a token record using the provided transaction.
func (r *Repository) FindByTokenWithTx(tx *gorm.DB, token string) (*models.SetupToken, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var record models.SetupToken
	if err := tx.First(&record, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkUsedWithTx consumes the token using the provided transaction. The
// conditional write is the concurrency guard: racing redemptions serialize on
// the row lock, and the loser sees zero affected rows.
func (r *Repository) MarkUsedWithTx(tx *gorm.DB, token string) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.SetupToken{}).
		Where("token = ? AND used = ?", token, false).
		UpdateColumn("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
