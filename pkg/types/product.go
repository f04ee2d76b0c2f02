package types

// NutritionalInfo captures per-unit nutrition facts for fresh produce.
type NutritionalInfo struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// BulkPricingTier grants a lower unit price at or above a quantity.
type BulkPricingTier struct {
	MinQuantity int     `json:"minQuantity" validate:"min=1"`
	Price       float64 `json:"price" validate:"gt=0"`
}
