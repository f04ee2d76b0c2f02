package types

// RatingAspects breaks a rating down by dimension. Every field is
// optional; absent aspects are omitted from JSON entirely.
type RatingAspects struct {
	Quality       *int `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
	Delivery      *int `json:"delivery,omitempty" validate:"omitempty,min=1,max=5"`
	Packaging     *int `json:"packaging,omitempty" validate:"omitempty,min=1,max=5"`
	Communication *int `json:"communication,omitempty" validate:"omitempty,min=1,max=5"`
}
