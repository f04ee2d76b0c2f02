package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is a priced line snapshot captured at checkout.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:order_items_product_id_idx"`
	Name      string    `gorm:"column:name;not null"`
	Price     float64   `gorm:"column:price;type:numeric(12,2);not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Unit      string    `gorm:"column:unit;not null"`
	Subtotal  float64   `gorm:"column:subtotal;type:numeric(12,2);not null"`
}

func (i *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
