package analytics

import (
	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
)

// Overview summarizes a supplier's order volume over the report period.
type Overview struct {
	TotalOrders   int64   `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

// StatusCount is the order count for one fulfillment status.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// TopProduct is one entry in the best sellers list.
type TopProduct struct {
	ProductID     uuid.UUID `json:"productId"`
	Name          string    `json:"name"`
	TotalQuantity int64     `json:"totalQuantity"`
	TotalRevenue  float64   `json:"totalRevenue"`
}

// DailySale is the order volume for one calendar day.
type DailySale struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Report is the supplier analytics response body.
type Report struct {
	PeriodDays     int           `json:"periodDays"`
	Overview       Overview      `json:"overview"`
	OrdersByStatus []StatusCount `json:"ordersByStatus"`
	TopProducts    []TopProduct  `json:"topProducts"`
	DailySales     []DailySale   `json:"dailySales"`
}
