package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo Repository
}

// Service owns catalog reads and farmer/admin catalog writes.
type Service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// FindProduct loads one product by id. Returns nil when the product does not
// exist so callers decide whether absence is an error.
func (s *Service) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListParams filters and pages a catalog listing.
type ListParams struct {
	FarmerID      *uuid.UUID
	IncludeHidden bool
	Featured      *bool
	Outlet        *bool
	Wakeari       *bool
	Search        string
	Limit         int
	Cursor        string
}

// ListResult is one catalog page plus the cursor for the next.
type ListResult struct {
	Items  []models.Product `json:"items"`
	Cursor string           `json:"cursor,omitempty"`
}

// List returns a catalog page. Hidden products only appear when the caller
// asked for them, which controllers restrict to farmer and admin roles.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	items, next, err := s.repo.List(ctx, ListQuery{
		FarmerID:   params.FarmerID,
		OnlyActive: !params.IncludeHidden,
		Featured:   params.Featured,
		Outlet:     params.Outlet,
		Wakeari:    params.Wakeari,
		Search:     strings.TrimSpace(params.Search),
		Limit:      params.Limit,
		Cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ListResult{Items: items}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

// CreateInput carries a new catalog entry.
type CreateInput struct {
	FarmerID    *uuid.UUID
	Name        string
	Unit        string
	Price       string
	TaxCategory enums.TaxCategory
	Description *string
	ImageURL    *string
	IsFeatured  bool
	IsOutlet    bool
	IsWakeari   bool
}

// Create validates and stores a catalog entry. The tax-inclusive price is
// precomputed here so reads never repeat the multiplication.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product unit required")
	}
	if !input.TaxCategory.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tax category")
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		FarmerID:     input.FarmerID,
		Name:         name,
		Unit:         unit,
		Price:        price,
		PriceWithTax: priceWithTax(price, input.TaxCategory),
		TaxCategory:  input.TaxCategory,
		IsActive:     true,
		IsFeatured:   input.IsFeatured,
		IsOutlet:     input.IsOutlet,
		IsWakeari:    input.IsWakeari,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

// UpdateInput carries a catalog edit. Nil fields are left untouched.
type UpdateInput struct {
	ID          uuid.UUID
	ActorFarmer *uuid.UUID
	Name        *string
	Unit        *string
	Price       *string
	TaxCategory *enums.TaxCategory
	Description *string
	ImageURL    *string
	IsActive    *bool
	IsFeatured  *bool
	IsOutlet    *bool
	IsWakeari   *bool
}

// Update applies a partial catalog edit. A farmer actor may only touch their
// own products; admin callers pass no actor and skip the ownership check.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*models.Product, error) {
	if input.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if input.ActorFarmer != nil {
		if product.FarmerID == nil || *product.FarmerID != *input.ActorFarmer {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to farmer")
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		product.Name = name
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product unit required")
		}
		product.Unit = unit
	}
	if input.TaxCategory != nil {
		if !input.TaxCategory.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tax category")
		}
		product.TaxCategory = *input.TaxCategory
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if input.Price != nil || input.TaxCategory != nil {
		product.PriceWithTax = priceWithTax(product.Price, product.TaxCategory)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsOutlet != nil {
		product.IsOutlet = *input.IsOutlet
	}
	if input.IsWakeari != nil {
		product.IsWakeari = *input.IsWakeari
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

// Deactivate hides a product from the catalog without deleting it, so placed
// orders keep resolving their history.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID, actorFarmer *uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if actorFarmer != nil {
		if product.FarmerID == nil || *product.FarmerID != *actorFarmer {
			return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to farmer")
		}
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

func parsePrice(value string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return price, nil
}

func priceWithTax(price decimal.Decimal, category enums.TaxCategory) decimal.Decimal {
	return price.Add(price.Mul(category.Rate())).Round(2)
}
