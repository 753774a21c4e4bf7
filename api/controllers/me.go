package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/api/middleware"
	"github.com/refarm-eos/refarm-backend/api/responses"
	"github.com/refarm-eos/refarm-backend/api/validators"
	"github.com/refarm-eos/refarm-backend/internal/accounts"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
)

// Me returns the profile behind the current session, shaped by role.
func Me(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		ctx := r.Context()
		switch middleware.RoleFromContext(ctx) {
		case enums.RoleRestaurant:
			restaurantID, err := uuid.Parse(middleware.RestaurantIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "restaurant context missing"))
				return
			}
			restaurant, err := svc.GetRestaurant(ctx, restaurantID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, restaurant)
		case enums.RoleFarmer:
			farmerID, err := uuid.Parse(middleware.FarmerIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "farmer context missing"))
				return
			}
			farmer, err := svc.GetFarmer(ctx, farmerID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, farmer)
		default:
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no profile for this session"))
		}
	}
}

type restaurantRegisterRequest struct {
	Name       string  `json:"name" validate:"required"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	ClosingDay int     `json:"closing_day" validate:"omitempty,min=1,max=99"`
}

// RestaurantRegister links the authenticated LINE user to a new buyer
// account. Guests call this once after their first login.
func RestaurantRegister(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		lineUserID := middleware.LineUserIDFromContext(r.Context())
		if lineUserID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "line user identity missing"))
			return
		}

		var payload restaurantRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.RegisterRestaurant(r.Context(), accounts.RegisterRestaurantInput{
			LineUserID: lineUserID,
			Name:       payload.Name,
			Phone:      payload.Phone,
			Address:    payload.Address,
			ClosingDay: payload.ClosingDay,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, restaurant)
	}
}

type restaurantUpdateRequest struct {
	Name                *string `json:"name,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Address             *string `json:"address,omitempty"`
	ClosingDay          *int    `json:"closing_day,omitempty"`
	DefaultDeliverySlot *string `json:"default_delivery_slot,omitempty"`
}

// RestaurantUpdate applies a partial edit to the caller's own profile.
func RestaurantUpdate(svc *accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		restaurantID, err := uuid.Parse(middleware.RestaurantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "restaurant context missing"))
			return
		}

		var payload restaurantUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := accounts.UpdateRestaurantInput{
			ID:         restaurantID,
			Name:       payload.Name,
			Phone:      payload.Phone,
			Address:    payload.Address,
			ClosingDay: payload.ClosingDay,
		}
		if payload.DefaultDeliverySlot != nil {
			slot, err := enums.ParseDeliverySlot(*payload.DefaultDeliverySlot)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery slot"))
				return
			}
			input.DefaultDeliverySlot = &slot
		}

		restaurant, err := svc.UpdateRestaurant(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, restaurant)
	}
}
