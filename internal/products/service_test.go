package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/pagination"
)

type stubRepo struct {
	createFn     func(ctx context.Context, product *models.Product) error
	updateFn     func(ctx context.Context, product *models.Product) error
	findFn       func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	listFn       func(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error)
	deactivateFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) Create(ctx context.Context, product *models.Product) error {
	if s.createFn != nil {
		return s.createFn(ctx, product)
	}
	return nil
}
func (s *stubRepo) Update(ctx context.Context, product *models.Product) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, product)
	}
	return nil
}
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, nil
}
func (s *stubRepo) List(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, nil, nil
}
func (s *stubRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if s.deactivateFn != nil {
		return s.deactivateFn(ctx, id)
	}
	return nil
}

func TestCreateComputesPriceWithTax(t *testing.T) {
	var created *models.Product
	repo := &stubRepo{
		createFn: func(ctx context.Context, product *models.Product) error {
			created = product
			return nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	product, err := svc.Create(context.Background(), CreateInput{
		Name:        "tomato",
		Unit:        "kg",
		Price:       "500",
		TaxCategory: enums.TaxCategoryReduced,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created == nil {
		t.Fatal("product was never persisted")
	}
	if !product.PriceWithTax.Equal(decimal.RequireFromString("540")) {
		t.Fatalf("expected tax-inclusive price 540, got %s", product.PriceWithTax)
	}
	if !product.IsActive {
		t.Fatal("new products must start active")
	}
}

func TestCreateRejectsMalformedPrice(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubRepo{}})

	for _, price := range []string{"", "abc", "12..5"} {
		_, err := svc.Create(context.Background(), CreateInput{
			Name:        "tomato",
			Unit:        "kg",
			Price:       price,
			TaxCategory: enums.TaxCategoryReduced,
		})
		if err == nil {
			t.Fatalf("expected error for price %q", price)
		}
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", price, err)
		}
	}
}

func TestUpdateRecomputesTaxOnPriceChange(t *testing.T) {
	productID := uuid.New()
	repo := &stubRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{
				ID:           productID,
				Name:         "tomato",
				Unit:         "kg",
				Price:        decimal.RequireFromString("500"),
				PriceWithTax: decimal.RequireFromString("540"),
				TaxCategory:  enums.TaxCategoryReduced,
				IsActive:     true,
			}, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	newPrice := "1000"
	product, err := svc.Update(context.Background(), UpdateInput{ID: productID, Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !product.PriceWithTax.Equal(decimal.RequireFromString("1080")) {
		t.Fatalf("expected recomputed tax-inclusive price 1080, got %s", product.PriceWithTax)
	}
}

func TestUpdateForbiddenForOtherFarmer(t *testing.T) {
	owner := uuid.New()
	repo := &stubRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: id, FarmerID: &owner}, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	other := uuid.New()
	name := "renamed"
	_, err := svc.Update(context.Background(), UpdateInput{
		ID:          uuid.New(),
		ActorFarmer: &other,
		Name:        &name,
	})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListHidesInactiveByDefault(t *testing.T) {
	var captured ListQuery
	repo := &stubRepo{
		listFn: func(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
			captured = params
			return nil, nil, nil
		},
	}
	svc, _ := NewService(ServiceParams{Repo: repo})

	if _, err := svc.List(context.Background(), ListParams{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !captured.OnlyActive {
		t.Fatal("expected default listing to exclude inactive products")
	}

	if _, err := svc.List(context.Background(), ListParams{IncludeHidden: true}); err != nil {
		t.Fatalf("list hidden: %v", err)
	}
	if captured.OnlyActive {
		t.Fatal("expected hidden listing to include inactive products")
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: &stubRepo{}})

	_, err := svc.List(context.Background(), ListParams{Cursor: "not-a-cursor"})
	if err == nil {
		t.Fatal("expected error for malformed cursor")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
