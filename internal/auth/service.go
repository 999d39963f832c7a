package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/internal/users"
	pkgauth "github.com/apexbill/apexbill-backend/pkg/auth"
	"github.com/apexbill/apexbill-backend/pkg/config"
	"github.com/apexbill/apexbill-backend/pkg/db"
	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
	"github.com/apexbill/apexbill-backend/pkg/security"
)

const usersEmailConstraint = "idx_users_email"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userStore interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	CreateWithTx(tx *gorm.DB, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type setupTokenStore interface {
	FindByTokenWithTx(tx *gorm.DB, token string) (*models.SetupToken, error)
	MarkUsedWithTx(tx *gorm.DB, token string) (bool, error)
}

// Service exposes the public account operations.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*users.UserDTO, error)
	SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error)
	RedeemSetupToken(ctx context.Context, req RedeemSetupTokenRequest) (*users.UserDTO, error)
}

type service struct {
	users    userStore
	tokens   setupTokenStore
	tx       txRunner
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

func NewService(userRepo userStore, tokenRepo setupTokenStore, tx txRunner, jwt config.JWTConfig, password config.PasswordConfig) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tokenRepo == nil {
		return nil, fmt.Errorf("setup token repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		users:    userRepo,
		tokens:   tokenRepo,
		tx:       tx,
		jwt:      jwt,
		password: password,
		now:      time.Now,
	}, nil
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (*users.UserDTO, error) {
	hashed, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         enums.RoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err, usersEmailConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "User with this email already exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return users.FromModel(user), nil
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (*SignInResult, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Incorrect email or password")
	}

	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &SignInResult{
		UserDTO:     *users.FromModel(user),
		AccessToken: token,
	}, nil
}

func (s *service) RedeemSetupToken(ctx context.Context, req RedeemSetupTokenRequest) (*users.UserDTO, error) {
	var dto *users.UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		record, err := s.tokens.FindByTokenWithTx(tx, req.Token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Setup token not found.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load setup token")
		}
		if record.Used {
			return pkgerrors.New(pkgerrors.CodeBadRequest, "Setup token already used.")
		}
		if record.Email != req.Email {
			return pkgerrors.New(pkgerrors.CodeBadRequest, "Email does not match token.")
		}

		// Consume the token before creating the account. The conditional
		// update serializes concurrent redemptions of the same token; the
		// loser sees it already consumed and rolls back without touching
		// the users table.
		consumed, err := s.tokens.MarkUsedWithTx(tx, req.Token)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark token used")
		}
		if !consumed {
			return pkgerrors.New(pkgerrors.CodeBadRequest, "Setup token already used.")
		}

		hashed, err := security.HashPassword(req.Password, s.password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}

		user, err := s.users.CreateWithTx(tx, users.CreateUserDTO{
			Email:        req.Email,
			PasswordHash: hashed,
			Role:         enums.RoleSuperAdmin,
		})
		if err != nil {
			if db.IsUniqueViolation(err, usersEmailConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "User with this email already exists.")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create superadmin")
		}

		dto = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
