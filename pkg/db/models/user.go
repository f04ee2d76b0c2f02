package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
)

// User represents the canonical identity entity. Suppliers carry the
// denormalized rating aggregate so directory reads never scan ratings.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	Phone        *string        `gorm:"column:phone"`
	Address      *string        `gorm:"column:address"`
	BusinessName *string        `gorm:"column:business_name"`
	BusinessType *string        `gorm:"column:business_type"`
	ProfileImage *string        `gorm:"column:profile_image"`
	IsVerified   bool           `gorm:"column:is_verified;not null;default:false"`
	Rating       float64        `gorm:"column:rating;type:numeric(2,1);not null;default:0"`
	RatingSum    int64          `gorm:"column:rating_sum;not null;default:0"`
	TotalRatings int64          `gorm:"column:total_ratings;not null;default:0"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
