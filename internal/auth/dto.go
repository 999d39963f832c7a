package auth

import "github.com/apexbill/apexbill-backend/internal/users"

// SignUpRequest carries the credentials for a new account.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInRequest carries the credentials for an existing account.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RedeemSetupTokenRequest bootstraps the first superadmin account from a
// pre-provisioned setup token.
type RedeemSetupTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignInResult is the sanitized user plus the freshly minted access token.
type SignInResult struct {
	users.UserDTO
	AccessToken string `json:"access_token"`
}
