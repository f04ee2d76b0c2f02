package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
)

// OrderFact is the slice of an order the report derivations need.
type OrderFact struct {
	OrderDate time.Time
	Total     float64
	Status    enums.OrderStatus
}

// Repository encapsulates analytics queries over the order history.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrdersSince returns the supplier's order facts inside the period.
// Daily bucketing happens in the service so the query stays portable
// across database drivers.
func (r *Repository) OrdersSince(ctx context.Context, supplierID uuid.UUID, since time.Time) ([]OrderFact, error) {
	var facts []OrderFact
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("order_date, total, status").
		Where("supplier_id = ? AND order_date >= ?", supplierID, since).
		Order("order_date ASC").
		Scan(&facts).
		Error; err != nil {
		return nil, err
	}
	return facts, nil
}

// TopProducts aggregates the supplier's best selling lines by quantity
// inside the period. Cancelled orders do not count.
func (r *Repository) TopProducts(ctx context.Context, supplierID uuid.UUID, since time.Time, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.product_id, order_items.name, SUM(order_items.quantity) AS total_quantity, SUM(order_items.subtotal) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.supplier_id = ? AND orders.order_date >= ? AND orders.status <> ?",
			supplierID, since, enums.OrderStatusCancelled).
		Group("order_items.product_id, order_items.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}
