package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/apexbill/apexbill-backend/api/middleware"
	"github.com/apexbill/apexbill-backend/internal/businesses"
	pkgerrors "github.com/apexbill/apexbill-backend/pkg/errors"
)

type stubBusinessService struct {
	business     *businesses.BusinessDTO
	deleteResult *businesses.DeleteBusinessResult
	err          error

	lastOwnerID uuid.UUID
	lastName    string
}

func (s *stubBusinessService) Create(ctx context.Context, ownerID uuid.UUID, req businesses.CreateBusinessRequest) (*businesses.BusinessDTO, error) {
	s.lastOwnerID = ownerID
	s.lastName = req.Name
	return s.business, s.err
}

func (s *stubBusinessService) UpdateDistributors(ctx context.Context, businessID uuid.UUID, req businesses.UpdateBusinessDistributorsRequest) (*businesses.BusinessDTO, error) {
	return s.business, s.err
}

func (s *stubBusinessService) Delete(ctx context.Context, businessID uuid.UUID) (*businesses.DeleteBusinessResult, error) {
	return s.deleteResult, s.err
}

func TestBusinessCreateUsesCallerAsOwner(t *testing.T) {
	ownerID := uuid.New()
	dto := &businesses.BusinessDTO{
		ID:           uuid.New(),
		Name:         "Acme Foods",
		Distributors: []businesses.DistributorRef{},
		Invoices:     []businesses.InvoiceRef{},
	}
	svc := &stubBusinessService{business: dto}
	handler := BusinessCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses", bytes.NewBufferString(`{"name":"Acme Foods"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), ownerID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastOwnerID != ownerID {
		t.Fatalf("expected owner %s, got %s", ownerID, svc.lastOwnerID)
	}
	var envelope struct {
		Data businesses.BusinessDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Distributors == nil || envelope.Data.Invoices == nil {
		t.Fatal("expected empty arrays, not null")
	}
}

func TestBusinessCreateTrimsName(t *testing.T) {
	svc := &stubBusinessService{business: &businesses.BusinessDTO{
		ID:           uuid.New(),
		Name:         "Acme Foods",
		Distributors: []businesses.DistributorRef{},
		Invoices:     []businesses.InvoiceRef{},
	}}
	handler := BusinessCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses", bytes.NewBufferString(`{"name":"  Acme Foods  "}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastName != "Acme Foods" {
		t.Fatalf("expected trimmed name, got %q", svc.lastName)
	}
}

func TestBusinessCreateMissingCaller(t *testing.T) {
	handler := BusinessCreate(&stubBusinessService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses", bytes.NewBufferString(`{"name":"Acme Foods"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestBusinessCreateConflict(t *testing.T) {
	handler := BusinessCreate(&stubBusinessService{err: pkgerrors.New(pkgerrors.CodeConflict, "A business with this name already exists.")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/businesses", bytes.NewBufferString(`{"name":"Acme Foods"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestBusinessUpdateDetails(t *testing.T) {
	businessID := uuid.New()
	distID := uuid.New()
	dto := &businesses.BusinessDTO{
		ID:           businessID,
		Name:         "Acme Foods",
		Distributors: []businesses.DistributorRef{{ID: distID, Name: "FreshCo"}},
		Invoices:     []businesses.InvoiceRef{},
	}
	handler := BusinessUpdateDetails(&stubBusinessService{business: dto}, nil)

	payload := `{"distributor_ids":["` + distID.String() + `"]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/businesses/"+businessID.String(), bytes.NewBufferString(payload))
	req = withURLParam(req, "businessId", businessID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBusinessDeleteInvalidID(t *testing.T) {
	handler := BusinessDelete(&stubBusinessService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/not-a-uuid", nil)
	req = withURLParam(req, "businessId", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
