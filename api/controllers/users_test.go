package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/apexbill/apexbill-backend/internal/users"
	"github.com/apexbill/apexbill-backend/pkg/enums"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
)

type stubUserService struct {
	user *users.UserDTO
	err  error

	added   []uuid.UUID
	removed []uuid.UUID
}

func (s *stubUserService) Promote(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s *stubUserService) Demote(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s *stubUserService) AssociateBusinesses(ctx context.Context, userID uuid.UUID, businessIDs []uuid.UUID) (*users.UserDTO, error) {
	s.added = businessIDs
	return s.user, s.err
}

func (s *stubUserService) RemoveBusinessAssociations(ctx context.Context, userID uuid.UUID, businessIDs []uuid.UUID) (*users.UserDTO, error) {
	s.removed = businessIDs
	return s.user, s.err
}

func (s *stubUserService) UpdateBusinessAssociations(ctx context.Context, userID uuid.UUID, toAdd, toRemove []uuid.UUID) (*users.UserDTO, error) {
	s.added = toAdd
	s.removed = toRemove
	return s.user, s.err
}

func TestUserPromote(t *testing.T) {
	userID := uuid.New()
	dto := &users.UserDTO{ID: userID, Email: "user@example.com", Role: enums.RoleAdmin}
	handler := UserPromote(&stubUserService{user: dto}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/promote", nil)
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Role != enums.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", envelope.Data.Role)
	}
}

func TestUserDemoteForbidden(t *testing.T) {
	userID := uuid.New()
	handler := UserDemote(&stubUserService{err: pkgerrors.New(pkgerrors.CodeForbidden, "SuperAdmin users cannot be demoted.")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/demote", nil)
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestUserAssociateBusinesses(t *testing.T) {
	userID := uuid.New()
	bizID := uuid.New()
	dto := &users.UserDTO{ID: userID, Role: enums.RoleUser}
	svc := &stubUserService{user: dto}
	handler := UserAssociateBusinesses(svc, nil)

	payload := `{"business_ids":["` + bizID.String() + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/businesses", bytes.NewBufferString(payload))
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.added) != 1 || svc.added[0] != bizID {
		t.Fatalf("expected association %s, got %v", bizID, svc.added)
	}
}

func TestUserAssociateBusinessesRejectsEmptyList(t *testing.T) {
	userID := uuid.New()
	handler := UserAssociateBusinesses(&stubUserService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/"+userID.String()+"/businesses", bytes.NewBufferString(`{"business_ids":[]}`))
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestUserUpdateBusinessAssociations(t *testing.T) {
	userID := uuid.New()
	addID := uuid.New()
	removeID := uuid.New()
	svc := &stubUserService{user: &users.UserDTO{ID: userID, Role: enums.RoleUser}}
	handler := UserUpdateBusinessAssociations(svc, nil)

	payload := `{"add_business_ids":["` + addID.String() + `"],"remove_business_ids":["` + removeID.String() + `"]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/"+userID.String()+"/businesses", bytes.NewBufferString(payload))
	req = withURLParam(req, "userId", userID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.added) != 1 || svc.added[0] != addID {
		t.Fatalf("expected add %s, got %v", addID, svc.added)
	}
	if len(svc.removed) != 1 || svc.removed[0] != removeID {
		t.Fatalf("expected remove %s, got %v", removeID, svc.removed)
	}
}

func TestUserPromoteInvalidID(t *testing.T) {
	handler := UserPromote(&stubUserService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/bogus/promote", nil)
	req = withURLParam(req, "userId", "bogus")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
