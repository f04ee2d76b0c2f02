package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateForUser inserts an empty wishlist for the user.
func (r *Repository) CreateForUser(ctx context.Context, userID uuid.UUID) error {
	wishlist := models.Wishlist{UserID: userID}
	return r.db.WithContext(ctx).Create(&wishlist).Error
}

// FindByUser loads the user's wishlist with its items and products.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("wishlist_items.created_at DESC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Supplier").
		Where("user_id = ?", userID).
		First(&wishlist).
		Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// GetOrCreate returns the user's wishlist, creating one when missing.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error) {
	wishlist, err := r.FindByUser(ctx, userID)
	if err == nil {
		return wishlist, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err := r.CreateForUser(ctx, userID); err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

// FindItem loads a wishlist entry by wishlist and product.
func (r *Repository) FindItem(ctx context.Context, wishlistID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		First(&item).
		Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem inserts a wishlist entry.
func (r *Repository) AddItem(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// RemoveItem deletes a wishlist entry.
func (r *Repository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.WishlistItem{}).
		Error
}
