package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
)

// Repository encapsulates user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository scoped to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the user row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail loads a user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether a user with the email is already registered.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApplyRatingDelta folds one new rating into the supplier's aggregate.
// The stored rating is the running mean rounded to one decimal place,
// recomputed from the incremental sum so the aggregate never drifts.
func (r *Repository) ApplyRatingDelta(ctx context.Context, supplierID uuid.UUID, ratingValue int) error {
	if err := r.db.WithContext(ctx).Exec(
		`UPDATE users SET rating_sum = rating_sum + ?, total_ratings = total_ratings + 1 WHERE id = ?`,
		ratingValue, supplierID,
	).Error; err != nil {
		return err
	}

	var agg struct {
		RatingSum    int64
		TotalRatings int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("rating_sum", "total_ratings").
		Where("id = ?", supplierID).
		Scan(&agg).
		Error; err != nil {
		return err
	}
	if agg.TotalRatings == 0 {
		return nil
	}

	mean := decimal.NewFromInt(agg.RatingSum).
		Div(decimal.NewFromInt(agg.TotalRatings)).
		Round(1)
	value, _ := mean.Float64()

	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", supplierID).
		Update("rating", value).
		Error
}
