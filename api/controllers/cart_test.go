package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/api/middleware"
	cartsvc "github.com/refarm-eos/refarm-backend/internal/cart"
	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

type memCartStore struct {
	snaps map[string]*cartsvc.Snapshot
}

func newMemCartStore() *memCartStore {
	return &memCartStore{snaps: map[string]*cartsvc.Snapshot{}}
}

func (m *memCartStore) Load(ctx context.Context, ownerID string) (*cartsvc.Snapshot, error) {
	return m.snaps[ownerID], nil
}

func (m *memCartStore) Save(ctx context.Context, ownerID string, snap *cartsvc.Snapshot) error {
	m.snaps[ownerID] = snap
	return nil
}

func (m *memCartStore) Delete(ctx context.Context, ownerID string) error {
	delete(m.snaps, ownerID)
	return nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s stubCatalog) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products[id], nil
}

func newCartTestService(t *testing.T, products ...*models.Product) *cartsvc.Service {
	t.Helper()
	catalog := stubCatalog{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	svc, err := cartsvc.NewService(cartsvc.ServiceParams{Store: newMemCartStore(), Products: catalog})
	if err != nil {
		t.Fatalf("build cart service: %v", err)
	}
	return svc
}

func cartTestContext(ctx context.Context, restaurantID uuid.UUID, lineUserID string) context.Context {
	ctx = middleware.WithRestaurantID(ctx, restaurantID.String())
	return middleware.WithLineUserID(ctx, lineUserID)
}

func testProduct(price string) *models.Product {
	return &models.Product{
		ID:           uuid.New(),
		Name:         "komatsuna",
		Unit:         "bundle",
		Price:        decimal.RequireFromString(price),
		PriceWithTax: decimal.RequireFromString(price).Mul(decimal.RequireFromString("1.08")),
		TaxCategory:  enums.TaxCategoryReduced,
		IsActive:     true,
	}
}

func TestCartAddItemCreatesLine(t *testing.T) {
	product := testProduct("500")
	svc := newCartTestService(t, product)
	restaurantID := uuid.New()

	handler := CartAddItem(svc, nil)
	body := `{"product_id":"` + product.ID.String() + `","quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(cartTestContext(req.Context(), restaurantID, "line-user"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Items[0].Quantity != 3 {
		t.Fatalf("unexpected quantity: %d", envelope.Data.Items[0].Quantity)
	}
	if envelope.Data.Total != "1620" {
		t.Fatalf("unexpected total: %s", envelope.Data.Total)
	}
}

func TestCartAddItemStringQuantity(t *testing.T) {
	product := testProduct("200")
	svc := newCartTestService(t, product)

	handler := CartAddItem(svc, nil)
	body := `{"product_id":"` + product.ID.String() + `","quantity":"2"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(cartTestContext(req.Context(), uuid.New(), "line-user"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartAddItemFractionalQuantityRejected(t *testing.T) {
	product := testProduct("200")
	svc := newCartTestService(t, product)

	handler := CartAddItem(svc, nil)
	body := `{"product_id":"` + product.ID.String() + `","quantity":1.5}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(cartTestContext(req.Context(), uuid.New(), "line-user"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	svc := newCartTestService(t)

	handler := CartAddItem(svc, nil)
	body := `{"product_id":"` + uuid.New().String() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(cartTestContext(req.Context(), uuid.New(), "line-user"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartGetEmpty(t *testing.T) {
	svc := newCartTestService(t)

	handler := CartGet(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	req = req.WithContext(cartTestContext(req.Context(), uuid.New(), "line-user"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %d items", envelope.Data.ItemCount)
	}
	if envelope.Data.Total != "0" {
		t.Fatalf("unexpected total: %s", envelope.Data.Total)
	}
}

func TestCartGetMissingRestaurantContext(t *testing.T) {
	svc := newCartTestService(t)

	handler := CartGet(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCartNilService(t *testing.T) {
	handler := CartGet(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
