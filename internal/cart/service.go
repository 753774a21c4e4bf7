package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/pkg/db/models"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
)

// ProductFinder resolves catalog entries when lines are added.
type ProductFinder interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store    Store
	Products ProductFinder
}

// Service manages per-user cart snapshots.
type Service struct {
	store    Store
	products ProductFinder
}

// NewService builds a cart service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, errors.New("store is required")
	}
	if params.Products == nil {
		return nil, errors.New("product finder is required")
	}
	return &Service{store: params.Store, products: params.Products}, nil
}

// Get returns the user's cart, or an empty one if nothing is stored yet.
func (s *Service) Get(ctx context.Context, restaurantID uuid.UUID, lineUserID string) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}
	snap, err := s.store.Load(ctx, lineUserID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return newSnapshot(restaurantID, lineUserID), nil
	}
	return snap, nil
}

// AddItem puts qty units of a product into the cart. Adding a product already
// present merges into the existing line instead of creating a duplicate.
func (s *Service) AddItem(ctx context.Context, restaurantID uuid.UUID, lineUserID string, productID uuid.UUID, qty int) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}

	snap, err := s.Get(ctx, restaurantID, lineUserID)
	if err != nil {
		return nil, err
	}

	if i := snap.lineIndex(productID); i >= 0 {
		snap.Items[i].Quantity += qty
	} else {
		snap.Items = append(snap.Items, lineFromProduct(product, qty))
	}

	if err := s.store.Save(ctx, lineUserID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// UpdateQuantity replaces a line's quantity. A quantity of zero or below
// removes the line entirely.
func (s *Service) UpdateQuantity(ctx context.Context, restaurantID uuid.UUID, lineUserID string, productID uuid.UUID, qty int) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	snap, err := s.Get(ctx, restaurantID, lineUserID)
	if err != nil {
		return nil, err
	}

	i := snap.lineIndex(productID)
	if i < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	if qty <= 0 {
		snap.Items = append(snap.Items[:i], snap.Items[i+1:]...)
	} else {
		snap.Items[i].Quantity = qty
	}

	if err := s.store.Save(ctx, lineUserID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// RemoveItem drops a product's line from the cart. Removing a product that is
// not present is a no-op.
func (s *Service) RemoveItem(ctx context.Context, restaurantID uuid.UUID, lineUserID string, productID uuid.UUID) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}

	snap, err := s.Get(ctx, restaurantID, lineUserID)
	if err != nil {
		return nil, err
	}

	if i := snap.lineIndex(productID); i >= 0 {
		snap.Items = append(snap.Items[:i], snap.Items[i+1:]...)
		if err := s.store.Save(ctx, lineUserID, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// Clear empties the cart lines while preserving favorites.
func (s *Service) Clear(ctx context.Context, restaurantID uuid.UUID, lineUserID string) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}

	snap, err := s.Get(ctx, restaurantID, lineUserID)
	if err != nil {
		return nil, err
	}

	snap.Items = []Line{}
	if err := s.store.Save(ctx, lineUserID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// AddFavorite marks a product as a favorite. Already-favorited products are
// left untouched.
func (s *Service) AddFavorite(ctx context.Context, restaurantID uuid.UUID, lineUserID string, productID uuid.UUID) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	snap, err := s.Get(ctx, restaurantID, lineUserID)
	if err != nil {
		return nil, err
	}
	if snap.IsFavorite(productID) {
		return snap, nil
	}

	snap.FavoriteIDs = append(snap.FavoriteIDs, productID)
	if err := s.store.Save(ctx, lineUserID, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// RemoveFavorite unmarks a product as a favorite.
func (s *Service) RemoveFavorite(ctx context.Context, restaurantID uuid.UUID, lineUserID string, productID uuid.UUID) (*Snapshot, error) {
	if err := requireOwner(restaurantID, lineUserID); err != nil {
		return nil, err
	}

	snap, err := s.Get(ctx, restaurantID, lineUserID)
	if err != nil {
		return nil, err
	}

	for i, id := range snap.FavoriteIDs {
		if id == productID {
			snap.FavoriteIDs = append(snap.FavoriteIDs[:i], snap.FavoriteIDs[i+1:]...)
			if err := s.store.Save(ctx, lineUserID, snap); err != nil {
				return nil, err
			}
			break
		}
	}
	return snap, nil
}

func requireOwner(restaurantID uuid.UUID, lineUserID string) error {
	if restaurantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "restaurant identity missing")
	}
	if strings.TrimSpace(lineUserID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "line user identity missing")
	}
	return nil
}
