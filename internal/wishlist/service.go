package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  *products.Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (WishlistDTO, error)
	Toggle(ctx context.Context, userID, productID uuid.UUID) (ToggleResult, error)
}

type service struct {
	wishlistRepo *Repository
	productRepo  *products.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
	}, nil
}

// Get returns the user's wishlist, creating an empty one on first use.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (WishlistDTO, error) {
	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return WishlistDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	return NewWishlistDTO(wishlist), nil
}

// Toggle adds the product to the wishlist, or removes it when already
// saved, reporting the resulting state.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID) (ToggleResult, error) {
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if !exists {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	wishlist, err := s.wishlistRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}

	item, err := s.wishlistRepo.FindItem(ctx, wishlist.ID, productID)
	switch {
	case err == nil:
		if err := s.wishlistRepo.RemoveItem(ctx, item.ID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
		}
		return ToggleResult{Message: "Product removed from wishlist", IsWishlisted: false}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := &models.WishlistItem{
			WishlistID: wishlist.ID,
			ProductID:  productID,
		}
		if err := s.wishlistRepo.AddItem(ctx, entry); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
		}
		return ToggleResult{Message: "Product added to wishlist", IsWishlisted: true}, nil
	default:
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}
}
