package ratings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
)

// Repository encapsulates rating persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a rating repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the rating row.
func (r *Repository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// ExistsForOrder reports whether the buyer already rated this order,
// either overall or for the same product.
func (r *Repository) ExistsForOrder(ctx context.Context, orderID, buyerID uuid.UUID, productID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("order_id = ? AND buyer_id = ?", orderID, buyerID)
	if productID == nil {
		query = query.Where("product_id IS NULL")
	} else {
		query = query.Where("product_id = ?", *productID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRecentForProduct returns the newest ratings on a product with
// their reviewers.
func (r *Repository) ListRecentForProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Rating, error) {
	var rows []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListRecentForSupplier returns the newest ratings on a supplier with
// their reviewers.
func (r *Repository) ListRecentForSupplier(ctx context.Context, supplierID uuid.UUID, limit int) ([]models.Rating, error) {
	var rows []models.Rating
	if err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}
