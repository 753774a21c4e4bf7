package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
)

type memStore struct {
	snaps map[string]*Snapshot
}

func newMemStore() *memStore {
	return &memStore{snaps: map[string]*Snapshot{}}
}

func (m *memStore) Load(ctx context.Context, ownerID string) (*Snapshot, error) {
	snap, ok := m.snaps[ownerID]
	if !ok {
		return nil, nil
	}
	copied := *snap
	return &copied, nil
}

func (m *memStore) Save(ctx context.Context, ownerID string, snap *Snapshot) error {
	copied := *snap
	m.snaps[ownerID] = &copied
	return nil
}

func (m *memStore) Delete(ctx context.Context, ownerID string) error {
	delete(m.snaps, ownerID)
	return nil
}

type stubProducts struct {
	findFn func(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

func (s *stubProducts) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, nil
}

func activeProduct(id uuid.UUID, priceWithTax string) *models.Product {
	return &models.Product{
		ID:           id,
		Name:         "tomato",
		Unit:         "kg",
		Price:        decimal.RequireFromString("500"),
		PriceWithTax: decimal.RequireFromString(priceWithTax),
		TaxCategory:  enums.TaxCategoryReduced,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, store Store, products ProductFinder) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Store: store, Products: products})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestAddItemMergesDuplicateProduct(t *testing.T) {
	productID := uuid.New()
	restaurantID := uuid.New()
	products := &stubProducts{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return activeProduct(id, "540"), nil
		},
	}
	svc := newTestService(t, newMemStore(), products)

	if _, err := svc.AddItem(context.Background(), restaurantID, "U1", productID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	snap, err := svc.AddItem(context.Background(), restaurantID, "U1", productID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(snap.Items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(snap.Items))
	}
	if snap.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", snap.Items[0].Quantity)
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	products := &stubProducts{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			p := activeProduct(id, "540")
			p.IsActive = false
			return p, nil
		},
	}
	svc := newTestService(t, newMemStore(), products)

	_, err := svc.AddItem(context.Background(), uuid.New(), "U1", uuid.New(), 1)
	if err == nil {
		t.Fatal("expected error for inactive product")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	productID := uuid.New()
	restaurantID := uuid.New()
	products := &stubProducts{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return activeProduct(id, "540"), nil
		},
	}
	svc := newTestService(t, newMemStore(), products)

	if _, err := svc.AddItem(context.Background(), restaurantID, "U1", productID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap, err := svc.UpdateQuantity(context.Background(), restaurantID, "U1", productID, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(snap.Items) != 0 {
		t.Fatalf("expected line removed, got %d lines", len(snap.Items))
	}
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	svc := newTestService(t, newMemStore(), &stubProducts{})

	_, err := svc.UpdateQuantity(context.Background(), uuid.New(), "U1", uuid.New(), 3)
	if err == nil {
		t.Fatal("expected error for product not in cart")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTotalRoundsOnceOverSum(t *testing.T) {
	restaurantID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	prices := map[uuid.UUID]string{
		first:  "108.3",
		second: "108.3",
	}
	products := &stubProducts{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return activeProduct(id, prices[id]), nil
		},
	}
	svc := newTestService(t, newMemStore(), products)

	if _, err := svc.AddItem(context.Background(), restaurantID, "U1", first, 1); err != nil {
		t.Fatalf("add first: %v", err)
	}
	snap, err := svc.AddItem(context.Background(), restaurantID, "U1", second, 1)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	// 108.3 + 108.3 = 216.6, rounded once to 217. Per-line rounding would
	// have produced 216.
	if got := snap.TotalYen(); got != 217 {
		t.Fatalf("expected total 217, got %d", got)
	}
}

func TestClearPreservesFavorites(t *testing.T) {
	restaurantID := uuid.New()
	productID := uuid.New()
	products := &stubProducts{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return activeProduct(id, "540"), nil
		},
	}
	svc := newTestService(t, newMemStore(), products)

	if _, err := svc.AddItem(context.Background(), restaurantID, "U1", productID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddFavorite(context.Background(), restaurantID, "U1", productID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	snap, err := svc.Clear(context.Background(), restaurantID, "U1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(snap.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Items))
	}
	if !snap.IsFavorite(productID) {
		t.Fatal("expected favorite to survive clearing the cart")
	}
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	restaurantID := uuid.New()
	productID := uuid.New()
	svc := newTestService(t, newMemStore(), &stubProducts{})

	if _, err := svc.AddFavorite(context.Background(), restaurantID, "U1", productID); err != nil {
		t.Fatalf("first favorite: %v", err)
	}
	snap, err := svc.AddFavorite(context.Background(), restaurantID, "U1", productID)
	if err != nil {
		t.Fatalf("second favorite: %v", err)
	}
	if len(snap.FavoriteIDs) != 1 {
		t.Fatalf("expected one favorite, got %d", len(snap.FavoriteIDs))
	}
}

func TestGetRequiresIdentity(t *testing.T) {
	svc := newTestService(t, newMemStore(), &stubProducts{})

	if _, err := svc.Get(context.Background(), uuid.Nil, "U1"); err == nil {
		t.Fatal("expected error for missing restaurant id")
	}
	if _, err := svc.Get(context.Background(), uuid.New(), " "); err == nil {
		t.Fatal("expected error for missing line user id")
	}
}
