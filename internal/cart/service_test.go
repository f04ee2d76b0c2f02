package cart

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
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return gdb
}

func seedCartFixtures(t *testing.T, gdb *gorm.DB) (buyerID uuid.UUID, product *models.Product) {
	t.Helper()
	supplier := &models.User{
		Name:         "Rosa",
		Email:        "rosa@example.test",
		PasswordHash: "x",
		Role:         enums.UserRoleSupplier,
	}
	require.NoError(t, gdb.Create(supplier).Error)

	buyer := &models.User{
		Name:         "Maya",
		Email:        "maya@example.test",
		PasswordHash: "x",
		Role:         enums.UserRoleStallOwner,
	}
	require.NoError(t, gdb.Create(buyer).Error)

	product = &models.Product{
		Name:        "Roma Tomatoes",
		Category:    "vegetables",
		Price:       2.50,
		Unit:        "kg",
		Quantity:    10,
		SupplierID:  supplier.ID,
		IsAvailable: true,
	}
	require.NoError(t, gdb.Create(product).Error)
	return buyer.ID, product
}

func newCartService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		CartRepo:    NewRepository(gdb),
		ProductRepo: products.NewRepository(gdb),
	})
	require.NoError(t, err)
	return svc
}

func TestGetCreatesEmptyCart(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, _ := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	dto, err := svc.Get(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	again, err := svc.Get(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, again.ID)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, product := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	dto, err := svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 2, dto.Items[0].Quantity)

	dto, err = svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 5, dto.Items[0].Quantity)
	require.NotNil(t, dto.Items[0].Product)
	assert.Equal(t, "Roma Tomatoes", dto.Items[0].Product.Name)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, product := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	_, err := svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 11})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())

	_, err = svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 8})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 8})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeOutOfStock, typed.Code())
}

func TestAddItemRejectsUnknownOrUnavailableProduct(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, product := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	_, err := svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	require.NoError(t, gdb.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_available", false).Error)
	_, err = svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateItemQuantityAndRemoveAtZero(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, product := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	dto, err := svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := dto.Items[0].ID

	dto, err = svc.UpdateItem(context.Background(), buyerID, itemID, UpdateItemRequest{Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, dto.Items[0].Quantity)

	dto, err = svc.UpdateItem(context.Background(), buyerID, itemID, UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestUpdateItemRejectsForeignCartLine(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, product := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	other := &models.User{
		Name:         "Jonas",
		Email:        "jonas@example.test",
		PasswordHash: "x",
		Role:         enums.UserRoleBuyer,
	}
	require.NoError(t, gdb.Create(other).Error)

	dto, err := svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), other.ID, dto.Items[0].ID, UpdateItemRequest{Quantity: 3})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveItemAndClear(t *testing.T) {
	gdb := setupCartTestDB(t)
	buyerID, product := seedCartFixtures(t, gdb)
	svc := newCartService(t, gdb)

	dto, err := svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	dto, err = svc.RemoveItem(context.Background(), buyerID, dto.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	_, err = svc.AddItem(context.Background(), buyerID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	dto, err = svc.Clear(context.Background(), buyerID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}
