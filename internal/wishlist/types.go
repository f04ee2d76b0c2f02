package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
)

// ItemDTO is one saved product in the wishlist response.
type ItemDTO struct {
	ID      uuid.UUID            `json:"id"`
	Product *products.ProductDTO `json:"product,omitempty"`
	AddedAt time.Time            `json:"addedAt"`
}

// WishlistDTO is the wishlist response body.
type WishlistDTO struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Items  []ItemDTO `json:"items"`
}

// NewWishlistDTO maps a wishlist row with its items into the response shape.
func NewWishlistDTO(w *models.Wishlist) WishlistDTO {
	items := make([]ItemDTO, 0, len(w.Items))
	for i := range w.Items {
		item := w.Items[i]
		dto := ItemDTO{
			ID:      item.ID,
			AddedAt: item.CreatedAt,
		}
		if item.Product != nil {
			product := products.NewProductDTO(item.Product)
			dto.Product = &product
		}
		items = append(items, dto)
	}
	return WishlistDTO{
		ID:     w.ID,
		UserID: w.UserID,
		Items:  items,
	}
}

// ToggleResult reports whether the product ended up wishlisted.
type ToggleResult struct {
	Message      string `json:"message"`
	IsWishlisted bool   `json:"isWishlisted"`
}
