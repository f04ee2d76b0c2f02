package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

// BuyerRef is the reviewer summary embedded in rating responses.
type BuyerRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RatingDTO is the rating response body.
type RatingDTO struct {
	ID        uuid.UUID            `json:"id"`
	OrderID   uuid.UUID            `json:"orderId"`
	Buyer     *BuyerRef            `json:"buyer,omitempty"`
	ProductID *uuid.UUID           `json:"productId,omitempty"`
	Rating    int                  `json:"rating"`
	Review    *string              `json:"review,omitempty"`
	Aspects   *types.RatingAspects `json:"aspects,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// NewRatingDTO maps a rating row into its API representation.
func NewRatingDTO(r *models.Rating, buyer *models.User) RatingDTO {
	dto := RatingDTO{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Rating:    r.Rating,
		Review:    r.Review,
		Aspects:   r.Aspects,
		CreatedAt: r.CreatedAt,
	}
	if buyer != nil {
		dto.Buyer = &BuyerRef{ID: buyer.ID, Name: buyer.Name}
	}
	return dto
}

// CreateRatingRequest is the payload for rating a delivered order.
type CreateRatingRequest struct {
	OrderID   uuid.UUID            `json:"orderId" validate:"required"`
	ProductID *uuid.UUID           `json:"productId,omitempty"`
	Rating    int                  `json:"rating" validate:"required,min=1,max=5"`
	Review    *string              `json:"review,omitempty" validate:"omitempty,max=2000"`
	Aspects   *types.RatingAspects `json:"aspects,omitempty"`
}

// CreateRatingResult reports the stored rating and the supplier's new
// aggregate.
type CreateRatingResult struct {
	Message        string    `json:"message"`
	Rating         RatingDTO `json:"rating"`
	SupplierRating float64   `json:"supplierRating"`
}
