package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

// Rating is a buyer's review of an order, optionally scoped to one
// product. A buyer rates a given order/product pair at most once. The
// postgres migration backs this with a COALESCE expression index so two
// NULL product_id rows collide; under sqlite AutoMigrate the composite
// index treats NULLs as distinct, and the service's pre-insert existence
// check covers that path.
type Rating struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ratings_order_buyer_product_key"`
	BuyerID    uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex:ratings_order_buyer_product_key"`
	Buyer      *User                `gorm:"foreignKey:BuyerID"`
	SupplierID uuid.UUID            `gorm:"column:supplier_id;type:uuid;not null;index:ratings_supplier_id_idx"`
	ProductID  *uuid.UUID           `gorm:"column:product_id;type:uuid;uniqueIndex:ratings_order_buyer_product_key"`
	Rating     int                  `gorm:"column:rating;not null"`
	Review     *string              `gorm:"column:review"`
	Aspects    *types.RatingAspects `gorm:"column:aspects;serializer:json"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (r *Rating) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
