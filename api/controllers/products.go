package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/api/middleware"
	"github.com/refarm-eos/refarm-backend/api/responses"
	"github.com/refarm-eos/refarm-backend/api/validators"
	productsvc "github.com/refarm-eos/refarm-backend/internal/products"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
)

// actorFarmerID resolves the farmer scoping for write endpoints. Farmers are
// pinned to their own catalog; admins get a nil actor and skip the check.
func actorFarmerID(r *http.Request) (*uuid.UUID, error) {
	if middleware.RoleFromContext(r.Context()) == enums.RoleAdmin {
		return nil, nil
	}
	farmerID, err := uuid.Parse(middleware.FarmerIDFromContext(r.Context()))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "farmer context missing")
	}
	return &farmerID, nil
}

func parseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key+" filter")
	}
	return &v, nil
}

// ProductList pages the catalog. Hidden products stay hidden unless the
// caller is a farmer or admin asking for them.
func ProductList(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := productsvc.ListParams{
			Search: r.URL.Query().Get("search"),
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		for key, dst := range map[string]**bool{
			"featured": &params.Featured,
			"outlet":   &params.Outlet,
			"wakeari":  &params.Wakeari,
		} {
			v, err := parseQueryBool(r, key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			*dst = v
		}
		if raw := r.URL.Query().Get("farmer_id"); raw != "" {
			farmerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farmer id"))
				return
			}
			params.FarmerID = &farmerID
		}

		role := middleware.RoleFromContext(r.Context())
		if role == enums.RoleFarmer || role == enums.RoleAdmin {
			params.IncludeHidden = r.URL.Query().Get("include_hidden") == "true"
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductGet returns one catalog entry.
func ProductGet(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.FindProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type productCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Unit        string  `json:"unit" validate:"required"`
	Price       string  `json:"price" validate:"required"`
	TaxCategory string  `json:"tax_category" validate:"required"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsFeatured  bool    `json:"is_featured"`
	IsOutlet    bool    `json:"is_outlet"`
	IsWakeari   bool    `json:"is_wakeari"`
}

// ProductCreate adds a catalog entry owned by the calling farmer. Admin
// callers may create unattributed entries.
func ProductCreate(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		farmerID, err := actorFarmerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateInput{
			FarmerID:    farmerID,
			Name:        payload.Name,
			Unit:        payload.Unit,
			Price:       payload.Price,
			TaxCategory: enums.TaxCategory(payload.TaxCategory),
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
			IsFeatured:  payload.IsFeatured,
			IsOutlet:    payload.IsOutlet,
			IsWakeari:   payload.IsWakeari,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type productUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	Price       *string `json:"price,omitempty"`
	TaxCategory *string `json:"tax_category,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsFeatured  *bool   `json:"is_featured,omitempty"`
	IsOutlet    *bool   `json:"is_outlet,omitempty"`
	IsWakeari   *bool   `json:"is_wakeari,omitempty"`
}

// ProductUpdate applies a partial catalog edit.
func ProductUpdate(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		farmerID, err := actorFarmerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateInput{
			ID:          productID,
			ActorFarmer: farmerID,
			Name:        payload.Name,
			Unit:        payload.Unit,
			Price:       payload.Price,
			Description: payload.Description,
			ImageURL:    payload.ImageURL,
			IsActive:    payload.IsActive,
			IsFeatured:  payload.IsFeatured,
			IsOutlet:    payload.IsOutlet,
			IsWakeari:   payload.IsWakeari,
		}
		if payload.TaxCategory != nil {
			category := enums.TaxCategory(*payload.TaxCategory)
			input.TaxCategory = &category
		}

		product, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDeactivate hides a catalog entry from restaurant listings.
func ProductDeactivate(svc *productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		farmerID, err := actorFarmerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Deactivate(r.Context(), productID, farmerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
