package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=128"`
	Role         string  `json:"role" validate:"required,oneof=supplier stall_owner buyer"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
	BusinessType *string `json:"businessType,omitempty"`
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the account representation returned to clients.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Role         enums.UserRole `json:"role"`
	Phone        *string        `json:"phone,omitempty"`
	Address      *string        `json:"address,omitempty"`
	BusinessName *string        `json:"businessName,omitempty"`
	BusinessType *string        `json:"businessType,omitempty"`
	ProfileImage *string        `json:"profileImage,omitempty"`
	IsVerified   bool           `json:"isVerified"`
	Rating       float64        `json:"rating"`
	TotalRatings int64          `json:"totalRatings"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// NewUserDTO maps a user row into its API representation.
func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Address:      u.Address,
		BusinessName: u.BusinessName,
		BusinessType: u.BusinessType,
		ProfileImage: u.ProfileImage,
		IsVerified:   u.IsVerified,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
		CreatedAt:    u.CreatedAt,
	}
}

// AuthResponse carries a minted token alongside the account.
type AuthResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}
