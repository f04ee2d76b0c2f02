package controllers

import (
	"net/http"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/responses"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/logger"
)

// InventoryAlerts returns the supplier's low stock and soon to expire
// listings.
func InventoryAlerts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		supplierID, err := actorID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		alerts, err := svc.InventoryAlerts(ctx, supplierID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, alerts)
	}
}
