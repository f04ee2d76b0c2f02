package controllers

import (
	"net/http"
	"strconv"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/responses"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/analytics"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/logger"
)

// SupplierAnalytics returns the supplier dashboard for the requested
// period, defaulting to the last thirty days.
func SupplierAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		supplierID, err := actorID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		period := 0
		if raw := r.URL.Query().Get("period"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "period must be a positive number of days"))
				return
			}
			period = value
		}

		report, err := svc.Report(ctx, supplierID, period)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
