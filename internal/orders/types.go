package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

// PartyRef is the buyer or supplier summary embedded in order responses.
type PartyRef struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BusinessName *string   `json:"businessName,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
}

// NewPartyRef maps a user row into the embedded party summary.
func NewPartyRef(u *models.User) *PartyRef {
	if u == nil {
		return nil
	}
	return &PartyRef{
		ID:           u.ID,
		Name:         u.Name,
		BusinessName: u.BusinessName,
		Phone:        u.Phone,
		Address:      u.Address,
	}
}

// ItemDTO is a priced line snapshot in an order response.
type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	Subtotal  float64   `json:"subtotal"`
}

// TrackingDTO is one timeline entry in an order response.
type TrackingDTO struct {
	Status      enums.OrderStatus `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Description string            `json:"description"`
}

// OrderDTO is the order response body.
type OrderDTO struct {
	ID                    uuid.UUID              `json:"id"`
	OrderNumber           string                 `json:"orderNumber"`
	Buyer                 *PartyRef              `json:"buyer,omitempty"`
	Supplier              *PartyRef              `json:"supplier,omitempty"`
	Items                 []ItemDTO              `json:"items"`
	Subtotal              float64                `json:"subtotal"`
	DeliveryFee           float64                `json:"deliveryFee"`
	Tax                   float64                `json:"tax"`
	Discount              float64                `json:"discount"`
	TotalAmount           float64                `json:"totalAmount"`
	Status                enums.OrderStatus      `json:"status"`
	PaymentStatus         enums.PaymentStatus    `json:"paymentStatus"`
	PaymentMethod         enums.PaymentMethod    `json:"paymentMethod"`
	OrderDate             time.Time              `json:"orderDate"`
	DeliveryDate          *time.Time             `json:"deliveryDate,omitempty"`
	EstimatedDeliveryTime *string                `json:"estimatedDeliveryTime,omitempty"`
	DeliveryAddress       *types.DeliveryAddress `json:"deliveryAddress,omitempty"`
	Notes                 *string                `json:"notes,omitempty"`
	CustomerNotes         *string                `json:"customerNotes,omitempty"`
	SupplierNotes         *string                `json:"supplierNotes,omitempty"`
	TrackingUpdates       []TrackingDTO          `json:"trackingUpdates"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

// NewOrderDTO maps an order row with its associations.
func NewOrderDTO(o *models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := o.Items[i]
		items = append(items, ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			Subtotal:  item.Subtotal,
		})
	}
	tracking := make([]TrackingDTO, 0, len(o.TrackingUpdates))
	for i := range o.TrackingUpdates {
		update := o.TrackingUpdates[i]
		tracking = append(tracking, TrackingDTO{
			Status:      update.Status,
			Timestamp:   update.Timestamp,
			Description: update.Description,
		})
	}
	return OrderDTO{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		Buyer:                 NewPartyRef(o.Buyer),
		Supplier:              NewPartyRef(o.Supplier),
		Items:                 items,
		Subtotal:              o.Subtotal,
		DeliveryFee:           o.DeliveryFee,
		Tax:                   o.Tax,
		Discount:              o.Discount,
		TotalAmount:           o.Total,
		Status:                o.Status,
		PaymentStatus:         o.PaymentStatus,
		PaymentMethod:         o.PaymentMethod,
		OrderDate:             o.OrderDate,
		DeliveryDate:          o.DeliveryDate,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		DeliveryAddress:       o.DeliveryAddress,
		Notes:                 o.Notes,
		CustomerNotes:         o.CustomerNotes,
		SupplierNotes:         o.SupplierNotes,
		TrackingUpdates:       tracking,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

// NewOrderDTOs maps a slice of order rows.
func NewOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewOrderDTO(&rows[i]))
	}
	return out
}

// LineRequest is one requested product line at checkout.
type LineRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the checkout payload. Lines spanning several
// suppliers produce one order per supplier.
type CreateOrderRequest struct {
	Items           []LineRequest         `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress types.DeliveryAddress `json:"deliveryAddress" validate:"required"`
	PaymentMethod   string                `json:"paymentMethod,omitempty"`
	CustomerNotes   *string               `json:"customerNotes,omitempty"`
}

// CreateOrderResult reports the orders produced by one checkout.
type CreateOrderResult struct {
	Message string     `json:"message"`
	Orders  []OrderDTO `json:"orders"`
}

// UpdateStatusRequest moves an order along the fulfillment pipeline.
type UpdateStatusRequest struct {
	Status                string  `json:"status" validate:"required"`
	Notes                 *string `json:"notes,omitempty"`
	EstimatedDeliveryTime *string `json:"estimatedDeliveryTime,omitempty"`
}

// ListParams narrows an order history listing.
type ListParams struct {
	Status string
	Page   int
	Limit  int
}

// PageMeta is the pagination block on order listings.
type PageMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// OrderPage is a page of order history.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	Pagination PageMeta   `json:"pagination"`
}
