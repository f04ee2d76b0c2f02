package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.TrackingUpdate{},
		&models.Cart{},
		&models.CartItem{},
	))
	return gdb
}

type orderFixtures struct {
	buyer    *models.User
	supplier *models.User
	second   *models.User
	tomatoes *models.Product
	apples   *models.Product
}

func seedOrderFixtures(t *testing.T, gdb *gorm.DB) orderFixtures {
	t.Helper()
	buyer := &models.User{Name: "Maya", Email: "maya@example.test", PasswordHash: "x", Role: enums.UserRoleStallOwner}
	supplier := &models.User{Name: "Rosa", Email: "rosa@example.test", PasswordHash: "x", Role: enums.UserRoleSupplier}
	second := &models.User{Name: "Dev", Email: "dev@example.test", PasswordHash: "x", Role: enums.UserRoleSupplier}
	for _, u := range []*models.User{buyer, supplier, second} {
		require.NoError(t, gdb.Create(u).Error)
	}

	tomatoes := &models.Product{
		Name: "Roma Tomatoes", Category: "vegetables", Price: 2.50, Unit: "kg",
		Quantity: 20, MinimumOrder: 2, SupplierID: supplier.ID, IsAvailable: true,
	}
	apples := &models.Product{
		Name: "Honeycrisp Apples", Category: "fruits", Price: 4.00, Unit: "kg",
		Quantity: 15, MinimumOrder: 1, SupplierID: second.ID, IsAvailable: true,
	}
	require.NoError(t, gdb.Create(tomatoes).Error)
	require.NoError(t, gdb.Create(apples).Error)
	return orderFixtures{buyer: buyer, supplier: supplier, second: second, tomatoes: tomatoes, apples: apples}
}

func newOrderService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:          gormTxRunner{db: gdb},
		OrderRepo:   NewRepository(gdb),
		ProductRepo: products.NewRepository(gdb),
		Orders:      config.OrdersConfig{NumberPrefix: "BB", NumberMaxRetries: 5},
	})
	require.NoError(t, err)
	return svc
}

func testAddress() types.DeliveryAddress {
	return types.DeliveryAddress{
		Street:  "Stall 42, Central Market",
		City:    "Pune",
		Pincode: "411001",
	}
}

func productQuantity(t *testing.T, gdb *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, gdb.First(&product, "id = ?", id).Error)
	return product.Quantity
}

func TestCreateOrderReservesStock(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)

	result, err := svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleStallOwner, CreateOrderRequest{
		Items:           []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: 5}},
		DeliveryAddress: testAddress(),
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	order := result.Orders[0]
	assert.True(t, strings.HasPrefix(order.OrderNumber, "BB"))
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, 12.50, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Roma Tomatoes", order.Items[0].Name)
	require.Len(t, order.TrackingUpdates, 1)
	assert.Equal(t, "Order placed successfully", order.TrackingUpdates[0].Description)

	assert.Equal(t, 15, productQuantity(t, gdb, fx.tomatoes.ID))
}

func TestCreateOrderSplitsPerSupplier(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)

	result, err := svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleBuyer, CreateOrderRequest{
		Items: []LineRequest{
			{ProductID: fx.tomatoes.ID, Quantity: 4},
			{ProductID: fx.apples.ID, Quantity: 3},
		},
		DeliveryAddress: testAddress(),
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)

	suppliers := map[uuid.UUID]bool{}
	for _, order := range result.Orders {
		require.NotNil(t, order.Supplier)
		suppliers[order.Supplier.ID] = true
	}
	assert.True(t, suppliers[fx.supplier.ID])
	assert.True(t, suppliers[fx.second.ID])
}

func TestCreateOrderRejectsOversell(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)

	_, err := svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleBuyer, CreateOrderRequest{
		Items:           []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: 25}},
		DeliveryAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())

	// the failed transaction must not leak a partial reservation
	assert.Equal(t, 20, productQuantity(t, gdb, fx.tomatoes.ID))
}

func TestCreateOrderRollsBackWholeCheckoutOnOversell(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)

	_, err := svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleBuyer, CreateOrderRequest{
		Items: []LineRequest{
			{ProductID: fx.tomatoes.ID, Quantity: 4},
			{ProductID: fx.apples.ID, Quantity: 99},
		},
		DeliveryAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())

	assert.Equal(t, 20, productQuantity(t, gdb, fx.tomatoes.ID))
	assert.Equal(t, 15, productQuantity(t, gdb, fx.apples.ID))

	var orderCount int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCreateOrderEnforcesRoleAndMinimum(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)

	_, err := svc.Create(context.Background(), fx.supplier.ID, enums.UserRoleSupplier, CreateOrderRequest{
		Items:           []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: 5}},
		DeliveryAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleBuyer, CreateOrderRequest{
		Items:           []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: 1}},
		DeliveryAddress: testAddress(),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleBuyer, CreateOrderRequest{
		Items: []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: 5}},
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateOrderClearsCart(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)

	buyerCart := &models.Cart{UserID: fx.buyer.ID}
	require.NoError(t, gdb.Create(buyerCart).Error)
	require.NoError(t, gdb.Create(&models.CartItem{
		CartID:    buyerCart.ID,
		ProductID: fx.tomatoes.ID,
		Quantity:  5,
	}).Error)

	_, err := svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleStallOwner, CreateOrderRequest{
		Items:           []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: 5}},
		DeliveryAddress: testAddress(),
	})
	require.NoError(t, err)

	var itemCount int64
	require.NoError(t, gdb.Model(&models.CartItem{}).Where("cart_id = ?", buyerCart.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func placeTestOrder(t *testing.T, svc Service, fx orderFixtures, quantity int) OrderDTO {
	t.Helper()
	result, err := svc.Create(context.Background(), fx.buyer.ID, enums.UserRoleStallOwner, CreateOrderRequest{
		Items:           []LineRequest{{ProductID: fx.tomatoes.ID, Quantity: quantity}},
		DeliveryAddress: testAddress(),
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	return result.Orders[0]
}

func TestGetRestrictsToParties(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)
	order := placeTestOrder(t, svc, fx, 5)

	_, err := svc.Get(context.Background(), fx.buyer.ID, order.ID)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), fx.supplier.ID, order.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), fx.second.ID, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	_, err = svc.Get(context.Background(), fx.buyer.ID, uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListMineScopesByRole(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)
	placeTestOrder(t, svc, fx, 5)
	placeTestOrder(t, svc, fx, 3)

	page, err := svc.ListMine(context.Background(), fx.buyer.ID, enums.UserRoleStallOwner, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalOrders)

	page, err = svc.ListMine(context.Background(), fx.supplier.ID, enums.UserRoleSupplier, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalOrders)

	page, err = svc.ListMine(context.Background(), fx.second.ID, enums.UserRoleSupplier, ListParams{})
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.TotalOrders)

	page, err = svc.ListMine(context.Background(), fx.buyer.ID, enums.UserRoleStallOwner, ListParams{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalOrders)

	_, err = svc.ListMine(context.Background(), fx.buyer.ID, enums.UserRoleStallOwner, ListParams{Status: "shipped"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusWalksPipeline(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)
	order := placeTestOrder(t, svc, fx, 5)

	statuses := []string{"confirmed", "prepared", "ready_for_pickup", "out_for_delivery", "delivered"}
	var updated OrderDTO
	var err error
	for _, status := range statuses {
		updated, err = svc.UpdateStatus(context.Background(), fx.supplier.ID, order.ID, UpdateStatusRequest{Status: status})
		require.NoError(t, err, "transition to %s", status)
	}

	assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveryDate)
	// order placement plus five transitions
	assert.Len(t, updated.TrackingUpdates, 6)
	assert.Equal(t, "Order delivered", updated.TrackingUpdates[5].Description)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)
	order := placeTestOrder(t, svc, fx, 5)

	_, err := svc.UpdateStatus(context.Background(), fx.supplier.ID, order.ID, UpdateStatusRequest{Status: "delivered"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.UpdateStatus(context.Background(), fx.supplier.ID, order.ID, UpdateStatusRequest{Status: "shipped"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusRejectsForeignSupplier(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)
	order := placeTestOrder(t, svc, fx, 5)

	_, err := svc.UpdateStatus(context.Background(), fx.second.ID, order.ID, UpdateStatusRequest{Status: "confirmed"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestCancelRestoresStock(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	fx := seedOrderFixtures(t, gdb)
	svc := newOrderService(t, gdb)
	order := placeTestOrder(t, svc, fx, 5)
	require.Equal(t, 15, productQuantity(t, gdb, fx.tomatoes.ID))

	updated, err := svc.UpdateStatus(context.Background(), fx.supplier.ID, order.ID, UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 20, productQuantity(t, gdb, fx.tomatoes.ID))

	_, err = svc.UpdateStatus(context.Background(), fx.supplier.ID, order.ID, UpdateStatusRequest{Status: "confirmed"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
