package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apexbill/apexbill-backend/internal/users"
	pkgauth "github.com/apexbill/apexbill-backend/pkg/auth"
	"github.com/apexbill/apexbill-backend/pkg/config"
	"github.com/apexbill/apexbill-backend/pkg/db/models"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
	"github.com/apexbill/apexbill-backend/pkg/security"
)

var (
	testJWT = config.JWTConfig{
		Secret:            "secret",
		Issuer:            "apexbill",
		ExpirationMinutes: 30,
	}
	testPassword = config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserStore struct {
	byEmail   map[string]*models.User
	created   []users.CreateUserDTO
	createErr error
}

func (s *stubUserStore) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	return s.create(dto)
}

func (s *stubUserStore) CreateWithTx(tx *gorm.DB, dto users.CreateUserDTO) (*models.User, error) {
	return s.create(dto)
}

func (s *stubUserStore) create(dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	return user, nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubTokenStore struct {
	record     *models.SetupToken
	markedUsed []string
	consumed   bool
}

func (s *stubTokenStore) FindByTokenWithTx(tx *gorm.DB, token string) (*models.SetupToken, error) {
	if s.record == nil || s.record.Token != token {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubTokenStore) MarkUsedWithTx(tx *gorm.DB, token string) (bool, error) {
	if s.consumed {
		return false, nil
	}
	s.consumed = true
	s.markedUsed = append(s.markedUsed, token)
	return true, nil
}

func newTestService(t *testing.T, userStore *stubUserStore, tokenStore *stubTokenStore) Service {
	t.Helper()
	svc, err := NewService(userStore, tokenStore, stubTxRunner{}, testJWT, testPassword)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSignUpCreatesUserRole(t *testing.T) {
	store := &stubUserStore{}
	svc := newTestService(t, store, &stubTokenStore{})

	dto, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "new@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if dto.Role != enums.RoleUser {
		t.Fatalf("expected role USER, got %s", dto.Role)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one create, got %d", len(store.created))
	}
	if store.created[0].PasswordHash == "password123" {
		t.Fatal("password must be hashed before persistence")
	}
	ok, err := security.VerifyPassword("password123", store.created[0].PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestSignInMintsToken(t *testing.T) {
	hashed, err := security.HashPassword("password123", testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashed,
		Role:         enums.RoleAdmin,
	}
	store := &stubUserStore{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, store, &stubTokenStore{})

	result, err := svc.SignIn(context.Background(), SignInRequest{
		Email:    "user@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected access token")
	}
	claims, err := pkgauth.ParseAccessToken(testJWT, result.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestSignInRejectsUnknownEmailAndBadPassword(t *testing.T) {
	hashed, err := security.HashPassword("password123", testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: hashed,
		Role:         enums.RoleUser,
	}
	store := &stubUserStore{byEmail: map[string]*models.User{user.Email: user}}
	svc := newTestService(t, store, &stubTokenStore{})

	cases := []SignInRequest{
		{Email: "missing@example.com", Password: "password123"},
		{Email: "user@example.com", Password: "wrong-password"},
	}
	for _, req := range cases {
		_, err := svc.SignIn(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("%s: expected unauthorized, got %v", req.Email, err)
		}
		if typed.Message() != "Incorrect email or password" {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	}
}

func TestRedeemSetupToken(t *testing.T) {
	tokens := &stubTokenStore{record: &models.SetupToken{
		Token: "abc123",
		Email: "root@example.com",
	}}
	store := &stubUserStore{}
	svc := newTestService(t, store, tokens)

	dto, err := svc.RedeemSetupToken(context.Background(), RedeemSetupTokenRequest{
		Token:    "abc123",
		Email:    "root@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if dto.Role != enums.RoleSuperAdmin {
		t.Fatalf("expected role SUPERADMIN, got %s", dto.Role)
	}
	if len(tokens.markedUsed) != 1 || tokens.markedUsed[0] != "abc123" {
		t.Fatalf("expected token marked used, got %v", tokens.markedUsed)
	}
}

// Two redemptions racing on the same token both read it unused; the consume
// step decides the winner, and the loser must fail with the already-used
// error before any account is created.
func TestRedeemSetupTokenLoserOfConsumeRace(t *testing.T) {
	tokens := &stubTokenStore{
		record:   &models.SetupToken{Token: "abc123", Email: "root@example.com"},
		consumed: true,
	}
	store := &stubUserStore{}
	svc := newTestService(t, store, tokens)

	_, err := svc.RedeemSetupToken(context.Background(), RedeemSetupTokenRequest{
		Token:    "abc123",
		Email:    "root@example.com",
		Password: "password123",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	if typed.Message() != "Setup token already used." {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	if len(store.created) != 0 {
		t.Fatal("losing redemption must not create a user")
	}
}

func TestRedeemSetupTokenValidation(t *testing.T) {
	cases := []struct {
		name    string
		record  *models.SetupToken
		req     RedeemSetupTokenRequest
		code    pkgerrors.Code
		message string
	}{
		{
			name:    "unknown token",
			record:  nil,
			req:     RedeemSetupTokenRequest{Token: "missing", Email: "a@example.com", Password: "password123"},
			code:    pkgerrors.CodeNotFound,
			message: "Setup token not found.",
		},
		{
			name:    "already used",
			record:  &models.SetupToken{Token: "t1", Email: "a@example.com", Used: true},
			req:     RedeemSetupTokenRequest{Token: "t1", Email: "a@example.com", Password: "password123"},
			code:    pkgerrors.CodeBadRequest,
			message: "Setup token already used.",
		},
		{
			name:    "email mismatch",
			record:  &models.SetupToken{Token: "t1", Email: "a@example.com"},
			req:     RedeemSetupTokenRequest{Token: "t1", Email: "b@example.com", Password: "password123"},
			code:    pkgerrors.CodeBadRequest,
			message: "Email does not match token.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubUserStore{}
			svc := newTestService(t, store, &stubTokenStore{record: tc.record})

			_, err := svc.RedeemSetupToken(context.Background(), tc.req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if typed.Message() != tc.message {
				t.Fatalf("unexpected message %q", typed.Message())
			}
			if len(store.created) != 0 {
				t.Fatal("no user should be created")
			}
		})
	}
}
