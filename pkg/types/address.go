package types

import "strings"

// DeliveryAddress is the drop-off location captured at checkout,
// persisted as JSONB alongside the order.
type DeliveryAddress struct {
	Street   string `json:"street"`
	Area     string `json:"area,omitempty"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

// IsZero reports whether no address fields were provided.
func (a DeliveryAddress) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.Area) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Pincode) == "" &&
		strings.TrimSpace(a.Landmark) == ""
}
