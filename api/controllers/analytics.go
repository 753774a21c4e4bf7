package controllers

import (
	"net/http"
	"time"

	"github.com/refarm-eos/refarm-backend/api/responses"
	analyticssvc "github.com/refarm-eos/refarm-backend/internal/analytics"
	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
)

func parseQueryDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(deliveryDateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key+" date")
	}
	return t, nil
}

// SalesReport aggregates delivered revenue for the admin dashboard.
func SalesReport(svc *analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		from, err := parseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := parseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.SalesReport(r.Context(), analyticssvc.ReportParams{From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
