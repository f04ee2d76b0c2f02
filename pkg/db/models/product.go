package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

// Product represents a supplier listing in the catalog.
type Product struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	Name           string                  `gorm:"column:name;not null;index:products_name_idx"`
	Category       string                  `gorm:"column:category;not null;index:products_category_idx"`
	Subcategory    *string                 `gorm:"column:subcategory"`
	Price          float64                 `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice  *float64                `gorm:"column:original_price;type:numeric(12,2)"`
	Unit           string                  `gorm:"column:unit;not null"`
	Quantity       int                     `gorm:"column:quantity;not null"`
	MinimumOrder   int                     `gorm:"column:minimum_order;not null;default:1"`
	Description    *string                 `gorm:"column:description"`
	Images         []string                `gorm:"column:images;serializer:json"`
	SupplierID     uuid.UUID               `gorm:"column:supplier_id;type:uuid;not null;index:products_supplier_id_idx"`
	Supplier       *User                   `gorm:"foreignKey:SupplierID"`
	IsAvailable    bool                    `gorm:"column:is_available;not null;default:true"`
	IsFeatured     bool                    `gorm:"column:is_featured;not null;default:false"`
	Tags           []string                `gorm:"column:tags;serializer:json"`
	Nutrition      *types.NutritionalInfo  `gorm:"column:nutrition;serializer:json"`
	HarvestDate    *time.Time              `gorm:"column:harvest_date"`
	ExpiryDate     *time.Time              `gorm:"column:expiry_date"`
	Origin         *string                 `gorm:"column:origin"`
	Certifications []string                `gorm:"column:certifications;serializer:json"`
	BulkPricing    []types.BulkPricingTier `gorm:"column:bulk_pricing;serializer:json"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
