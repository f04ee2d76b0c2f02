package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
)

// ItemDTO is one line in the cart response.
type ItemDTO struct {
	ID       uuid.UUID            `json:"id"`
	Product  *products.ProductDTO `json:"product,omitempty"`
	Quantity int                  `json:"quantity"`
	AddedAt  time.Time            `json:"addedAt"`
}

// CartDTO is the cart response body.
type CartDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Items     []ItemDTO `json:"items"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCartDTO maps a cart row with its items into the response shape.
func NewCartDTO(c *models.Cart) CartDTO {
	items := make([]ItemDTO, 0, len(c.Items))
	for i := range c.Items {
		item := c.Items[i]
		dto := ItemDTO{
			ID:       item.ID,
			Quantity: item.Quantity,
			AddedAt:  item.AddedAt,
		}
		if item.Product != nil {
			product := products.NewProductDTO(item.Product)
			dto.Product = &product
		}
		items = append(items, dto)
	}
	return CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		UpdatedAt: c.UpdatedAt,
	}
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest sets a new quantity on a cart line. Zero or a
// negative quantity removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}
