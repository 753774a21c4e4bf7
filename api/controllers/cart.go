package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/api/middleware"
	"github.com/refarm-eos/refarm-backend/api/responses"
	"github.com/refarm-eos/refarm-backend/api/validators"
	cartsvc "github.com/refarm-eos/refarm-backend/internal/cart"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
	"github.com/refarm-eos/refarm-backend/pkg/money"
)

// cartOwner pulls the restaurant and LINE identity the cart endpoints scope to.
func cartOwner(ctx context.Context) (uuid.UUID, string, error) {
	restaurantID, err := uuid.Parse(middleware.RestaurantIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeForbidden, "restaurant context missing")
	}
	lineUserID := middleware.LineUserIDFromContext(ctx)
	if lineUserID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "line user identity missing")
	}
	return restaurantID, lineUserID, nil
}

type cartResponse struct {
	Items       []cartsvc.Line `json:"items"`
	FavoriteIDs []uuid.UUID    `json:"favorite_ids"`
	ItemCount   int            `json:"item_count"`
	Total       string         `json:"total"`
}

func newCartResponse(snap *cartsvc.Snapshot) cartResponse {
	return cartResponse{
		Items:       snap.Items,
		FavoriteIDs: snap.FavoriteIDs,
		ItemCount:   snap.ItemCount(),
		Total:       money.FormatYen(snap.TotalYen()),
	}
}

// CartGet returns the caller's cart.
func CartGet(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Get(r.Context(), restaurantID, lineUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  any       `json:"quantity" validate:"required"`
}

// CartAddItem puts units of a product into the cart, merging duplicates.
func CartAddItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, err := money.ParseQuantity(payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quantity"))
			return
		}

		snap, err := svc.AddItem(r.Context(), restaurantID, lineUserID, payload.ProductID, qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

type cartQuantityRequest struct {
	Quantity any `json:"quantity" validate:"required"`
}

// CartUpdateItem replaces a line's quantity; zero removes the line.
func CartUpdateItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, err := money.ParseQuantity(payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quantity"))
			return
		}

		snap, err := svc.UpdateQuantity(r.Context(), restaurantID, lineUserID, productID, qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartRemoveItem drops a product's line from the cart.
func CartRemoveItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		snap, err := svc.RemoveItem(r.Context(), restaurantID, lineUserID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartClear empties the cart while keeping favorites.
func CartClear(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Clear(r.Context(), restaurantID, lineUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// FavoriteAdd marks a product as a favorite.
func FavoriteAdd(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		snap, err := svc.AddFavorite(r.Context(), restaurantID, lineUserID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// FavoriteRemove unmarks a product as a favorite.
func FavoriteRemove(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		restaurantID, lineUserID, err := cartOwner(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		snap, err := svc.RemoveFavorite(r.Context(), restaurantID, lineUserID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snap))
	}
}
