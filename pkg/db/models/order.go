package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

// Order represents a checkout against a single supplier. Line items are
// priced snapshots; later product edits never change a placed order.
type Order struct {
	ID                    uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber           string                 `gorm:"column:order_number;not null;uniqueIndex:orders_order_number_key"`
	BuyerID               uuid.UUID              `gorm:"column:buyer_id;type:uuid;not null;index:orders_buyer_id_idx"`
	Buyer                 *User                  `gorm:"foreignKey:BuyerID"`
	SupplierID            uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null;index:orders_supplier_id_idx"`
	Supplier              *User                  `gorm:"foreignKey:SupplierID"`
	Items                 []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal              float64                `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee           float64                `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	Tax                   float64                `gorm:"column:tax;type:numeric(12,2);not null;default:0"`
	Discount              float64                `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	Total                 float64                `gorm:"column:total;type:numeric(12,2);not null"`
	Status                enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus         enums.PaymentStatus    `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod         enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null;default:'cash_on_delivery'"`
	OrderDate             time.Time              `gorm:"column:order_date;not null"`
	DeliveryDate          *time.Time             `gorm:"column:delivery_date"`
	EstimatedDeliveryTime *string                `gorm:"column:estimated_delivery_time"`
	DeliveryAddress       *types.DeliveryAddress `gorm:"column:delivery_address;serializer:json"`
	Notes                 *string                `gorm:"column:notes"`
	CustomerNotes         *string                `gorm:"column:customer_notes"`
	SupplierNotes         *string                `gorm:"column:supplier_notes"`
	TrackingUpdates       []TrackingUpdate       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
