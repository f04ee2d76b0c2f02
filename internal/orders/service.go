package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

const (
	defaultListLimit         = 10
	initialTrackingMessage   = "Order placed successfully"
	orderNumberTimestampLen  = 6
	orderNumberRandomCeiling = 1000
)

// txRunner runs a function inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	DB          txRunner
	OrderRepo   *Repository
	ProductRepo *products.Repository
	Orders      config.OrdersConfig
	Now         func() time.Time
}

// Service exposes the order lifecycle.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, role enums.UserRole, req CreateOrderRequest) (CreateOrderResult, error)
	ListMine(ctx context.Context, userID uuid.UUID, role enums.UserRole, params ListParams) (OrderPage, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	UpdateStatus(ctx context.Context, supplierID, orderID uuid.UUID, req UpdateStatusRequest) (OrderDTO, error)
}

type service struct {
	db          txRunner
	orderRepo   *Repository
	productRepo *products.Repository
	orders      config.OrdersConfig
	now         func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Orders.NumberPrefix == "" {
		params.Orders.NumberPrefix = "BB"
	}
	if params.Orders.NumberMaxRetries <= 0 {
		params.Orders.NumberMaxRetries = 5
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		db:          params.DB,
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		orders:      params.Orders,
		now:         params.Now,
	}, nil
}

// Create places orders for the requested lines. Stock is reserved with
// a guarded decrement inside the transaction, so two buyers can never
// oversell the same listing. Lines spanning several suppliers produce
// one order per supplier, and the buyer's cart is cleared on success.
func (s *service) Create(ctx context.Context, buyerID uuid.UUID, role enums.UserRole, req CreateOrderRequest) (CreateOrderResult, error) {
	if !role.CanPlaceOrders() {
		return CreateOrderResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "suppliers cannot place orders")
	}
	if req.DeliveryAddress.IsZero() {
		return CreateOrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	paymentMethod := enums.PaymentMethodCashOnDelivery
	if req.PaymentMethod != "" {
		parsed, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			return CreateOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		paymentMethod = parsed
	}

	lines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return CreateOrderResult{}, err
	}

	bySupplier := map[uuid.UUID][]resolvedLine{}
	supplierOrder := []uuid.UUID{}
	for _, line := range lines {
		if _, seen := bySupplier[line.product.SupplierID]; !seen {
			supplierOrder = append(supplierOrder, line.product.SupplierID)
		}
		bySupplier[line.product.SupplierID] = append(bySupplier[line.product.SupplierID], line)
	}

	var created []uuid.UUID
	attempt := func() error {
		created = created[:0]
		return s.db.WithTx(ctx, func(tx *gorm.DB) error {
			orderRepo := s.orderRepo.WithTx(tx)
			productRepo := s.productRepo.WithTx(tx)

			for _, supplierID := range supplierOrder {
				group := bySupplier[supplierID]
				now := s.now()

				var subtotal float64
				items := make([]models.OrderItem, 0, len(group))
				for _, line := range group {
					touched, err := productRepo.DecrementStock(ctx, line.product.ID, line.quantity)
					if err != nil {
						return err
					}
					if touched == 0 {
						return pkgerrors.New(pkgerrors.CodeOutOfStock,
							fmt.Sprintf("insufficient stock for %s", line.product.Name))
					}
					lineSubtotal := line.product.Price * float64(line.quantity)
					subtotal += lineSubtotal
					items = append(items, models.OrderItem{
						ProductID: line.product.ID,
						Name:      line.product.Name,
						Price:     line.product.Price,
						Quantity:  line.quantity,
						Unit:      line.product.Unit,
						Subtotal:  lineSubtotal,
					})
				}

				address := req.DeliveryAddress
				order := &models.Order{
					OrderNumber:     s.generateOrderNumber(now),
					BuyerID:         buyerID,
					SupplierID:      supplierID,
					Items:           items,
					Subtotal:        subtotal,
					Total:           subtotal,
					Status:          enums.OrderStatusPending,
					PaymentStatus:   enums.PaymentStatusPending,
					PaymentMethod:   paymentMethod,
					OrderDate:       now,
					DeliveryAddress: &address,
					CustomerNotes:   req.CustomerNotes,
					TrackingUpdates: []models.TrackingUpdate{{
						Status:      enums.OrderStatusPending,
						Timestamp:   now,
						Description: initialTrackingMessage,
					}},
				}
				if err := orderRepo.Create(ctx, order); err != nil {
					return err
				}
				created = append(created, order.ID)
			}

			return orderRepo.ClearCartForUser(ctx, buyerID)
		})
	}

	err = attempt()
	for retries := 0; err != nil && db.IsUniqueViolation(err, "order_number") && retries < s.orders.NumberMaxRetries; retries++ {
		err = attempt()
	}
	if err != nil {
		var appErr *pkgerrors.Error
		if errors.As(err, &appErr) {
			return CreateOrderResult{}, err
		}
		return CreateOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	dtos := make([]OrderDTO, 0, len(created))
	for _, id := range created {
		order, err := s.orderRepo.FindByID(ctx, id)
		if err != nil {
			return CreateOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		dtos = append(dtos, NewOrderDTO(order))
	}
	return CreateOrderResult{
		Message: "Order placed successfully",
		Orders:  dtos,
	}, nil
}

// ListMine returns the caller's order history. Suppliers see the orders
// placed with them, everyone else sees the orders they placed.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID, role enums.UserRole, params ListParams) (OrderPage, error) {
	scope := Scope{}
	if role == enums.UserRoleSupplier {
		scope.SupplierID = &userID
	} else {
		scope.BuyerID = &userID
	}
	if params.Status != "" {
		status, err := enums.ParseOrderStatus(params.Status)
		if err != nil {
			return OrderPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		scope.Status = &status
	}

	page := pagination.Normalize(pagination.Params{Page: params.Page, Limit: params.Limit})
	if params.Limit <= 0 {
		page.Limit = defaultListLimit
	}

	rows, total, err := s.orderRepo.List(ctx, scope, page)
	if err != nil {
		return OrderPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	meta := pagination.MetaFor(page, total)
	return OrderPage{
		Orders: NewOrderDTOs(rows),
		Pagination: PageMeta{
			CurrentPage: meta.CurrentPage,
			TotalPages:  meta.TotalPages,
			TotalOrders: meta.Total,
			HasNext:     meta.HasNext,
			HasPrev:     meta.HasPrev,
		},
	}, nil
}

// Get returns one order. Only the buyer and the supplier on the order
// may read it.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.BuyerID != userID && order.SupplierID != userID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return NewOrderDTO(order), nil
}

// UpdateStatus moves an order along the fulfillment pipeline. Only the
// owning supplier may update, only adjacent transitions are legal, and
// every change lands on the tracking timeline. Cancelling returns the
// reserved stock to the catalog.
func (s *service) UpdateStatus(ctx context.Context, supplierID, orderID uuid.UUID, req UpdateStatusRequest) (OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.SupplierID != supplierID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another supplier")
	}

	next, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	if !order.Status.CanTransitionTo(next) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	now := s.now()
	updates := map[string]any{"status": next}
	if req.Notes != nil {
		updates["supplier_notes"] = *req.Notes
	}
	if req.EstimatedDeliveryTime != nil {
		updates["estimated_delivery_time"] = *req.EstimatedDeliveryTime
	}
	if next == enums.OrderStatusDelivered {
		updates["delivery_date"] = now
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateFields(ctx, order.ID, updates); err != nil {
			return err
		}
		if next == enums.OrderStatusCancelled {
			productRepo := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if err := productRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return orderRepo.AppendTracking(ctx, &models.TrackingUpdate{
			OrderID:     order.ID,
			Status:      next,
			Timestamp:   now,
			Description: next.TrackingDescription(),
		})
	})
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	updated, err := s.loadOrder(ctx, order.ID)
	if err != nil {
		return OrderDTO{}, err
	}
	return NewOrderDTO(updated), nil
}

type resolvedLine struct {
	product  *models.Product
	quantity int
}

func (s *service) resolveLines(ctx context.Context, items []LineRequest) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsAvailable {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s is not available", product.Name))
		}
		if item.Quantity < product.MinimumOrder {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("minimum order for %s is %d %s", product.Name, product.MinimumOrder, product.Unit))
		}
		lines = append(lines, resolvedLine{product: product, quantity: item.Quantity})
	}
	return lines, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// generateOrderNumber builds a short human readable reference from the
// timestamp tail and a random suffix. Collisions are possible and are
// absorbed by the unique index plus a bounded retry at checkout.
func (s *service) generateOrderNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > orderNumberTimestampLen {
		millis = millis[len(millis)-orderNumberTimestampLen:]
	}
	return fmt.Sprintf("%s%s%03d", s.orders.NumberPrefix, millis, rand.Intn(orderNumberRandomCeiling))
}
