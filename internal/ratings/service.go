package ratings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/orders"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/users"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

const recentRatingsLimit = 10

// txRunner runs a function inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the rating service.
type ServiceParams struct {
	DB         txRunner
	RatingRepo *Repository
	OrderRepo  *orders.Repository
	UserRepo   *users.Repository
	Now        func() time.Time
}

// Service exposes rating submission and listings.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, req CreateRatingRequest) (CreateRatingResult, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]RatingDTO, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]RatingDTO, error)
}

type service struct {
	db         txRunner
	ratingRepo *Repository
	orderRepo  *orders.Repository
	userRepo   *users.Repository
	now        func() time.Time
}

// NewService builds a rating service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.RatingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		db:         params.DB,
		ratingRepo: params.RatingRepo,
		orderRepo:  params.OrderRepo,
		userRepo:   params.UserRepo,
		now:        params.Now,
	}, nil
}

// Create records a rating for an order the buyer owns and folds it into
// the supplier's aggregate in the same transaction. A buyer rates a given
// order, or a product within it, at most once.
func (s *service) Create(ctx context.Context, buyerID uuid.UUID, req CreateRatingRequest) (CreateRatingResult, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreateRatingResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return CreateRatingResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.BuyerID != buyerID {
		return CreateRatingResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "you can only rate your own orders")
	}
	if req.ProductID != nil && !orderContainsProduct(order, *req.ProductID) {
		return CreateRatingResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not part of this order")
	}

	exists, err := s.ratingRepo.ExistsForOrder(ctx, order.ID, buyerID, req.ProductID)
	if err != nil {
		return CreateRatingResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check rating")
	}
	if exists {
		return CreateRatingResult{}, pkgerrors.New(pkgerrors.CodeConflict, "You have already rated this order")
	}

	rating := &models.Rating{
		OrderID:    order.ID,
		BuyerID:    buyerID,
		SupplierID: order.SupplierID,
		ProductID:  req.ProductID,
		Rating:     req.Rating,
		Review:     req.Review,
		Aspects:    req.Aspects,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ratingRepo.WithTx(tx).Create(ctx, rating); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).ApplyRatingDelta(ctx, order.SupplierID, req.Rating)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return CreateRatingResult{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "You have already rated this order")
		}
		return CreateRatingResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rating")
	}

	supplier, err := s.userRepo.FindByID(ctx, order.SupplierID)
	if err != nil {
		return CreateRatingResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload supplier")
	}

	return CreateRatingResult{
		Message:        "Rating submitted successfully",
		Rating:         NewRatingDTO(rating, nil),
		SupplierRating: supplier.Rating,
	}, nil
}

// ListForProduct returns the newest ratings on a product.
func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID) ([]RatingDTO, error) {
	rows, err := s.ratingRepo.ListRecentForProduct(ctx, productID, recentRatingsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product ratings")
	}
	return newRatingDTOs(rows), nil
}

// ListForSupplier returns the newest ratings on a supplier.
func (s *service) ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]RatingDTO, error) {
	rows, err := s.ratingRepo.ListRecentForSupplier(ctx, supplierID, recentRatingsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier ratings")
	}
	return newRatingDTOs(rows), nil
}

func newRatingDTOs(rows []models.Rating) []RatingDTO {
	out := make([]RatingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewRatingDTO(&rows[i], rows[i].Buyer))
	}
	return out
}

func orderContainsProduct(order *models.Order, productID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
