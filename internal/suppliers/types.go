package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
)

// Stats carries directory aggregates derived from a supplier's catalog
// and order history.
type Stats struct {
	ProductCount int64    `json:"productCount"`
	TotalOrders  int64    `json:"totalOrders"`
	Categories   []string `json:"categories"`
	AvgPrice     float64  `json:"avgPrice"`
}

// DirectoryEntry is one supplier in the directory listing.
type DirectoryEntry struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	BusinessName *string   `json:"businessName,omitempty"`
	BusinessType *string   `json:"businessType,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	Rating       float64   `json:"rating"`
	TotalRatings int64     `json:"totalRatings"`
	CreatedAt    time.Time `json:"createdAt"`
	Stats
}

// NewDirectoryEntry maps a supplier row and its stats into the listing shape.
func NewDirectoryEntry(u *models.User, stats Stats) DirectoryEntry {
	if stats.Categories == nil {
		stats.Categories = []string{}
	}
	return DirectoryEntry{
		ID:           u.ID,
		Name:         u.Name,
		BusinessName: u.BusinessName,
		BusinessType: u.BusinessType,
		Phone:        u.Phone,
		Address:      u.Address,
		ProfileImage: u.ProfileImage,
		IsVerified:   u.IsVerified,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
		CreatedAt:    u.CreatedAt,
		Stats:        stats,
	}
}

// PageMeta is the pagination block on directory listings.
type PageMeta struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalSuppliers int64 `json:"totalSuppliers"`
	HasNext        bool  `json:"hasNext"`
	HasPrev        bool  `json:"hasPrev"`
}

// DirectoryPage is a page of the supplier directory.
type DirectoryPage struct {
	Suppliers  []DirectoryEntry `json:"suppliers"`
	Pagination PageMeta         `json:"pagination"`
}

// DirectoryFilters narrows the supplier directory.
type DirectoryFilters struct {
	Search       string
	BusinessType string
	Location     string
	MinRating    *float64
	SortBy       string
}
