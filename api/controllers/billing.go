package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/refarm-eos/refarm-backend/api/middleware"
	"github.com/refarm-eos/refarm-backend/api/responses"
	billingsvc "github.com/refarm-eos/refarm-backend/internal/billing"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
)

// BillingUsage reports spend for the caller's current billing period.
func BillingUsage(svc *billingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		restaurantID, err := uuid.Parse(middleware.RestaurantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant context missing"))
			return
		}

		summary, err := svc.CurrentUsage(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
