package products

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

const (
	featuredLimit           = 10
	suggestionMinQueryLen   = 2
	productSuggestionLimit  = 5
	supplierSuggestionLimit = 3
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo      *Repository
	Inventory config.InventoryConfig
	Now       func() time.Time
}

// Service exposes business rules for the product catalog.
type Service interface {
	List(ctx context.Context, filters ListFilters, page pagination.Params) (ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	ListMine(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, supplierID uuid.UUID, req CreateProductRequest) (ProductDTO, error)
	Update(ctx context.Context, supplierID, id uuid.UUID, req UpdateProductRequest) (ProductDTO, error)
	Delete(ctx context.Context, supplierID, id uuid.UUID) error
	BulkUpdate(ctx context.Context, supplierID uuid.UUID, req BulkUpdateRequest) (BulkUpdateResult, error)
	Categories(ctx context.Context) ([]CategorySummary, error)
	Featured(ctx context.Context) ([]ProductDTO, error)
	Suggest(ctx context.Context, q string) (Suggestions, error)
	InventoryAlerts(ctx context.Context, supplierID uuid.UUID) (InventoryAlerts, error)
}

type service struct {
	repo      *Repository
	inventory config.InventoryConfig
	now       func() time.Time
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:      params.Repo,
		inventory: params.Inventory,
		now:       params.Now,
	}, nil
}

// List returns a page of the public catalog.
func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) (ProductPage, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	meta := pagination.MetaFor(page, total)
	return ProductPage{
		Products: NewProductDTOs(rows),
		Pagination: PageMeta{
			CurrentPage:   meta.CurrentPage,
			TotalPages:    meta.TotalPages,
			TotalProducts: meta.Total,
			HasNext:       meta.HasNext,
			HasPrev:       meta.HasPrev,
		},
	}, nil
}

// Get returns one product with its supplier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// ListMine returns every listing the supplier owns, including the
// unavailable ones.
func (s *service) ListMine(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier products")
	}
	return NewProductDTOs(rows), nil
}

// Create registers a new listing for the supplier.
func (s *service) Create(ctx context.Context, supplierID uuid.UUID, req CreateProductRequest) (ProductDTO, error) {
	product := req.toModel(supplierID)
	if err := s.repo.Create(ctx, product); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	created, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return NewProductDTO(created), nil
}

// Update edits a listing the supplier owns.
func (s *service) Update(ctx context.Context, supplierID, id uuid.UUID, req UpdateProductRequest) (ProductDTO, error) {
	updates := req.columns()
	if len(updates) == 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	touched, err := s.repo.UpdateOwned(ctx, id, supplierID, updates)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	if touched == 0 {
		return ProductDTO{}, s.missingOrForbidden(ctx, id)
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return NewProductDTO(updated), nil
}

// Delete removes a listing the supplier owns.
func (s *service) Delete(ctx context.Context, supplierID, id uuid.UUID) error {
	removed, err := s.repo.DeleteOwned(ctx, id, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if removed == 0 {
		return s.missingOrForbidden(ctx, id)
	}
	return nil
}

// BulkUpdate applies one set of updates to several owned listings.
func (s *service) BulkUpdate(ctx context.Context, supplierID uuid.UUID, req BulkUpdateRequest) (BulkUpdateResult, error) {
	updates := req.Updates.columns()
	if len(updates) == 0 {
		return BulkUpdateResult{}, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	touched, err := s.repo.BulkUpdateOwned(ctx, req.ProductIDs, supplierID, updates)
	if err != nil {
		return BulkUpdateResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bulk update products")
	}
	return BulkUpdateResult{
		Message:      "Products updated successfully",
		UpdatedCount: touched,
	}, nil
}

// Categories aggregates the available catalog per category.
func (s *service) Categories(ctx context.Context) ([]CategorySummary, error) {
	out, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate categories")
	}
	return out, nil
}

// Featured returns the newest featured listings.
func (s *service) Featured(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return NewProductDTOs(rows), nil
}

// Suggest returns typeahead matches for the search box. Queries shorter
// than two characters return an empty result rather than an error.
func (s *service) Suggest(ctx context.Context, q string) (Suggestions, error) {
	empty := Suggestions{
		Products:  []ProductSuggestion{},
		Suppliers: []SupplierSuggestion{},
	}
	q = strings.TrimSpace(q)
	if len(q) < suggestionMinQueryLen {
		return empty, nil
	}
	productMatches, err := s.repo.SuggestProducts(ctx, q, productSuggestionLimit)
	if err != nil {
		return Suggestions{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suggest products")
	}
	supplierMatches, err := s.repo.SuggestSuppliers(ctx, q, supplierSuggestionLimit)
	if err != nil {
		return Suggestions{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suggest suppliers")
	}
	if productMatches == nil {
		productMatches = empty.Products
	}
	if supplierMatches == nil {
		supplierMatches = empty.Suppliers
	}
	return Suggestions{Products: productMatches, Suppliers: supplierMatches}, nil
}

// InventoryAlerts returns the supplier's low stock and soon to expire
// listings in one payload.
func (s *service) InventoryAlerts(ctx context.Context, supplierID uuid.UUID) (InventoryAlerts, error) {
	lowStock, err := s.repo.LowStock(ctx, supplierID, s.inventory.LowStockThreshold)
	if err != nil {
		return InventoryAlerts{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	expiring, err := s.repo.ExpiringSoon(ctx, supplierID, s.inventory.ExpiryWindow, s.now())
	if err != nil {
		return InventoryAlerts{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list expiring products")
	}
	return InventoryAlerts{
		LowStock:     NewProductDTOs(lowStock),
		ExpiringSoon: NewProductDTOs(expiring),
	}, nil
}

func (s *service) missingOrForbidden(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another supplier")
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (r CreateProductRequest) toModel(supplierID uuid.UUID) *models.Product {
	product := &models.Product{
		Name:           r.Name,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		Price:          r.Price,
		OriginalPrice:  r.OriginalPrice,
		Unit:           r.Unit,
		Quantity:       r.Quantity,
		MinimumOrder:   1,
		Description:    r.Description,
		Images:         r.Images,
		SupplierID:     supplierID,
		IsAvailable:    true,
		Tags:           r.Tags,
		Nutrition:      r.Nutrition,
		HarvestDate:    r.HarvestDate,
		ExpiryDate:     r.ExpiryDate,
		Origin:         r.Origin,
		Certifications: r.Certifications,
		BulkPricing:    r.BulkPricing,
	}
	if r.MinimumOrder > 0 {
		product.MinimumOrder = r.MinimumOrder
	}
	if r.IsAvailable != nil {
		product.IsAvailable = *r.IsAvailable
	}
	if r.IsFeatured != nil {
		product.IsFeatured = *r.IsFeatured
	}
	return product
}

// columns converts set fields into gorm column updates.
func (r UpdateProductRequest) columns() map[string]any {
	updates := map[string]any{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Category != nil {
		updates["category"] = *r.Category
	}
	if r.Subcategory != nil {
		updates["subcategory"] = *r.Subcategory
	}
	if r.Price != nil {
		updates["price"] = *r.Price
	}
	if r.OriginalPrice != nil {
		updates["original_price"] = *r.OriginalPrice
	}
	if r.Unit != nil {
		updates["unit"] = *r.Unit
	}
	if r.Quantity != nil {
		updates["quantity"] = *r.Quantity
	}
	if r.MinimumOrder != nil {
		updates["minimum_order"] = *r.MinimumOrder
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Images != nil {
		updates["images"] = jsonColumn(r.Images)
	}
	if r.IsAvailable != nil {
		updates["is_available"] = *r.IsAvailable
	}
	if r.IsFeatured != nil {
		updates["is_featured"] = *r.IsFeatured
	}
	if r.Tags != nil {
		updates["tags"] = jsonColumn(r.Tags)
	}
	if r.Nutrition != nil {
		updates["nutrition"] = jsonColumn(r.Nutrition)
	}
	if r.HarvestDate != nil {
		updates["harvest_date"] = *r.HarvestDate
	}
	if r.ExpiryDate != nil {
		updates["expiry_date"] = *r.ExpiryDate
	}
	if r.Origin != nil {
		updates["origin"] = *r.Origin
	}
	if r.Certifications != nil {
		updates["certifications"] = jsonColumn(r.Certifications)
	}
	if r.BulkPricing != nil {
		updates["bulk_pricing"] = jsonColumn(r.BulkPricing)
	}
	return updates
}

// jsonColumn renders a value for a JSON serialized column. Map based
// updates bypass the gorm serializer, so the encoding happens here.
func jsonColumn(v any) any {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(encoded)
}
