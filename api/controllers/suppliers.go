package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/responses"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/ratings"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/suppliers"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/logger"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

const supplierDetailProducts = 20

// SuppliersList returns a page of the supplier directory.
func SuppliersList(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		query := r.URL.Query()
		filters := suppliers.DirectoryFilters{
			Search:       strings.TrimSpace(query.Get("search")),
			BusinessType: strings.TrimSpace(query.Get("businessType")),
			Location:     strings.TrimSpace(query.Get("location")),
			SortBy:       strings.TrimSpace(query.Get("sortBy")),
		}
		if raw := strings.TrimSpace(query.Get("minRating")); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil || value < 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "minRating must be a non-negative number"))
				return
			}
			filters.MinRating = &value
		}

		page, err := svc.List(ctx, filters, pagination.FromRequest(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// SupplierGet returns one supplier with a slice of their catalog and
// their most recent ratings.
func SupplierGet(svc suppliers.Service, productSvc products.Service, ratingSvc ratings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || productSvc == nil || ratingSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		supplier, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		catalog, err := productSvc.List(ctx,
			products.ListFilters{SupplierID: &id},
			pagination.Params{Page: 1, Limit: supplierDetailProducts},
		)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		supplierRatings, err := ratingSvc.ListForSupplier(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"supplier": supplier,
			"products": catalog.Products,
			"ratings":  supplierRatings,
		})
	}
}

// SupplierBusinessTypes returns the distinct business types for filters.
func SupplierBusinessTypes(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		types, err := svc.BusinessTypes(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"businessTypes": types})
	}
}
