package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

// SupplierRef is the supplier summary embedded in catalog responses.
type SupplierRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BusinessName *string   `json:"businessName,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Rating       float64   `json:"rating"`
	TotalRatings int64     `json:"totalRatings"`
	IsVerified   bool      `json:"isVerified"`
}

// NewSupplierRef maps a user row into the embedded supplier summary.
func NewSupplierRef(u *models.User) *SupplierRef {
	if u == nil {
		return nil
	}
	return &SupplierRef{
		ID:           u.ID,
		Name:         u.Name,
		BusinessName: u.BusinessName,
		Phone:        u.Phone,
		Address:      u.Address,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
		IsVerified:   u.IsVerified,
	}
}

// ProductDTO is the catalog representation of a product.
type ProductDTO struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Category       string                  `json:"category"`
	Subcategory    *string                 `json:"subcategory,omitempty"`
	Price          float64                 `json:"price"`
	OriginalPrice  *float64                `json:"originalPrice,omitempty"`
	Unit           string                  `json:"unit"`
	Quantity       int                     `json:"quantity"`
	MinimumOrder   int                     `json:"minimumOrder"`
	Description    *string                 `json:"description,omitempty"`
	Images         []string                `json:"images"`
	SupplierID     uuid.UUID               `json:"supplierId"`
	Supplier       *SupplierRef            `json:"supplier,omitempty"`
	IsAvailable    bool                    `json:"isAvailable"`
	IsFeatured     bool                    `json:"isFeatured"`
	Tags           []string                `json:"tags,omitempty"`
	Nutrition      *types.NutritionalInfo  `json:"nutrition,omitempty"`
	HarvestDate    *time.Time              `json:"harvestDate,omitempty"`
	ExpiryDate     *time.Time              `json:"expiryDate,omitempty"`
	Origin         *string                 `json:"origin,omitempty"`
	Certifications []string                `json:"certifications,omitempty"`
	BulkPricing    []types.BulkPricingTier `json:"bulkPricing,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// NewProductDTO maps a product row into its API representation.
func NewProductDTO(p *models.Product) ProductDTO {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Price:          p.Price,
		OriginalPrice:  p.OriginalPrice,
		Unit:           p.Unit,
		Quantity:       p.Quantity,
		MinimumOrder:   p.MinimumOrder,
		Description:    p.Description,
		Images:         images,
		SupplierID:     p.SupplierID,
		Supplier:       NewSupplierRef(p.Supplier),
		IsAvailable:    p.IsAvailable,
		IsFeatured:     p.IsFeatured,
		Tags:           p.Tags,
		Nutrition:      p.Nutrition,
		HarvestDate:    p.HarvestDate,
		ExpiryDate:     p.ExpiryDate,
		Origin:         p.Origin,
		Certifications: p.Certifications,
		BulkPricing:    p.BulkPricing,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of product rows.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductDTO(&rows[i]))
	}
	return out
}

// CreateProductRequest is the payload for creating a listing.
type CreateProductRequest struct {
	Name           string                  `json:"name" validate:"required,min=2,max=200"`
	Category       string                  `json:"category" validate:"required"`
	Subcategory    *string                 `json:"subcategory,omitempty"`
	Price          float64                 `json:"price" validate:"required,gt=0"`
	OriginalPrice  *float64                `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	Unit           string                  `json:"unit" validate:"required"`
	Quantity       int                     `json:"quantity" validate:"min=0"`
	MinimumOrder   int                     `json:"minimumOrder,omitempty" validate:"omitempty,min=1"`
	Description    *string                 `json:"description,omitempty"`
	Images         []string                `json:"images,omitempty"`
	IsAvailable    *bool                   `json:"isAvailable,omitempty"`
	IsFeatured     *bool                   `json:"isFeatured,omitempty"`
	Tags           []string                `json:"tags,omitempty"`
	Nutrition      *types.NutritionalInfo  `json:"nutrition,omitempty"`
	HarvestDate    *time.Time              `json:"harvestDate,omitempty"`
	ExpiryDate     *time.Time              `json:"expiryDate,omitempty"`
	Origin         *string                 `json:"origin,omitempty"`
	Certifications []string                `json:"certifications,omitempty"`
	BulkPricing    []types.BulkPricingTier `json:"bulkPricing,omitempty" validate:"omitempty,dive"`
}

// UpdateProductRequest is the payload for editing a listing. Every
// field is optional; absent fields are left untouched.
type UpdateProductRequest struct {
	Name           *string                 `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Category       *string                 `json:"category,omitempty"`
	Subcategory    *string                 `json:"subcategory,omitempty"`
	Price          *float64                `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice  *float64                `json:"originalPrice,omitempty" validate:"omitempty,gt=0"`
	Unit           *string                 `json:"unit,omitempty"`
	Quantity       *int                    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	MinimumOrder   *int                    `json:"minimumOrder,omitempty" validate:"omitempty,min=1"`
	Description    *string                 `json:"description,omitempty"`
	Images         []string                `json:"images,omitempty"`
	IsAvailable    *bool                   `json:"isAvailable,omitempty"`
	IsFeatured     *bool                   `json:"isFeatured,omitempty"`
	Tags           []string                `json:"tags,omitempty"`
	Nutrition      *types.NutritionalInfo  `json:"nutrition,omitempty"`
	HarvestDate    *time.Time              `json:"harvestDate,omitempty"`
	ExpiryDate     *time.Time              `json:"expiryDate,omitempty"`
	Origin         *string                 `json:"origin,omitempty"`
	Certifications []string                `json:"certifications,omitempty"`
	BulkPricing    []types.BulkPricingTier `json:"bulkPricing,omitempty" validate:"omitempty,dive"`
}

// BulkUpdateRequest applies one set of updates to several listings.
type BulkUpdateRequest struct {
	ProductIDs []uuid.UUID          `json:"productIds" validate:"required,min=1"`
	Updates    UpdateProductRequest `json:"updates" validate:"required"`
}

// BulkUpdateResult reports how many listings the bulk update touched.
type BulkUpdateResult struct {
	Message      string `json:"message"`
	UpdatedCount int64  `json:"updatedCount"`
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category    string
	Subcategory string
	Search      string
	SupplierID  *uuid.UUID
	MinPrice    *float64
	MaxPrice    *float64
	Featured    bool
	SortBy      string
	SortOrder   string
}

// PageMeta is the pagination block on catalog listings.
type PageMeta struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalProducts int64 `json:"totalProducts"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
}

// ProductPage is a page of catalog listings.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	Pagination PageMeta     `json:"pagination"`
}

// CategorySummary aggregates the catalog per category.
type CategorySummary struct {
	Category      string   `json:"category"`
	Count         int64    `json:"count"`
	Subcategories []string `json:"subcategories"`
}

// ProductSuggestion is a lightweight search suggestion entry.
type ProductSuggestion struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

// SupplierSuggestion is a supplier search suggestion entry.
type SupplierSuggestion struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BusinessName *string   `json:"businessName,omitempty"`
}

// Suggestions groups typeahead results for the search box.
type Suggestions struct {
	Products  []ProductSuggestion  `json:"products"`
	Suppliers []SupplierSuggestion `json:"suppliers"`
}

// InventoryAlerts groups listings needing supplier attention.
type InventoryAlerts struct {
	LowStock     []ProductDTO `json:"lowStock"`
	ExpiringSoon []ProductDTO `json:"expiringSoon"`
}
