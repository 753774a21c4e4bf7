package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/api/responses"
	"github.com/refarm-eos/refarm-backend/api/validators"
	"github.com/refarm-eos/refarm-backend/internal/accounts"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
)

// FarmerList returns every producer, ordered by farm name.
func FarmerList(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		farmers, err := svc.ListFarmers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, farmers)
	}
}

// FarmerGet returns one producer profile.
func FarmerGet(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		farmerID, err := uuid.Parse(chi.URLParam(r, "farmerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farmer id"))
			return
		}

		farmer, err := svc.GetFarmer(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, farmer)
	}
}

type farmerRegisterRequest struct {
	LineUserID string  `json:"line_user_id" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	FarmName   *string `json:"farm_name,omitempty"`
	Region     *string `json:"region,omitempty"`
	Bio        *string `json:"bio,omitempty"`
}

// FarmerRegister creates a producer account. Admin only.
func FarmerRegister(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var payload farmerRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmer, err := svc.RegisterFarmer(r.Context(), accounts.RegisterFarmerInput{
			LineUserID: payload.LineUserID,
			Name:       payload.Name,
			FarmName:   payload.FarmName,
			Region:     payload.Region,
			Bio:        payload.Bio,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, farmer)
	}
}

type farmerUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	FarmName *string `json:"farm_name,omitempty"`
	Region   *string `json:"region,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// FarmerUpdate applies a partial producer profile edit. Admin only.
func FarmerUpdate(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		farmerID, err := uuid.Parse(chi.URLParam(r, "farmerID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farmer id"))
			return
		}

		var payload farmerUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmer, err := svc.UpdateFarmer(r.Context(), accounts.UpdateFarmerInput{
			ID:       farmerID,
			Name:     payload.Name,
			FarmName: payload.FarmName,
			Region:   payload.Region,
			Bio:      payload.Bio,
			ImageURL: payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, farmer)
	}
}
