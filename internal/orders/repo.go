package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

// Scope narrows order queries to one side of the marketplace.
type Scope struct {
	BuyerID    *uuid.UUID
	SupplierID *uuid.UUID
	Status     *enums.OrderStatus
}

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an order together with its line items and any initial
// tracking updates.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with every association the API exposes.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("TrackingUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("tracking_updates.timestamp ASC")
		}).
		Preload("Buyer").
		Preload("Supplier").
		Where("id = ?", id).
		First(&order).
		Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a page of orders for the scope, newest order date first.
func (r *Repository) List(ctx context.Context, scope Scope, page pagination.Params) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if scope.BuyerID != nil {
		query = query.Where("buyer_id = ?", *scope.BuyerID)
	}
	if scope.SupplierID != nil {
		query = query.Where("supplier_id = ?", *scope.SupplierID)
	}
	if scope.Status != nil {
		query = query.Where("status = ?", *scope.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Order
	if err := query.
		Preload("Items").
		Preload("Buyer").
		Preload("Supplier").
		Order("order_date DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateFields applies column updates to one order.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// AppendTracking records one timeline entry.
func (r *Repository) AppendTracking(ctx context.Context, update *models.TrackingUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

// ClearCartForUser empties the buyer's cart after checkout.
func (r *Repository) ClearCartForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = ?)`,
		userID,
	).Error
}
