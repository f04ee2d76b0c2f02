package suppliers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/pagination"
)

func setupDirectoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return gdb
}

func seedDirectorySupplier(t *testing.T, gdb *gorm.DB, name, businessType string, rating float64) *models.User {
	t.Helper()
	business := name + " Produce"
	supplier := &models.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.test",
		PasswordHash: "x",
		Role:         enums.UserRoleSupplier,
		BusinessName: &business,
		BusinessType: &businessType,
		Rating:       rating,
	}
	require.NoError(t, gdb.Create(supplier).Error)
	return supplier
}

func newDirectoryService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(gdb)})
	require.NoError(t, err)
	return svc
}

func TestDirectoryListWithStats(t *testing.T) {
	gdb := setupDirectoryTestDB(t)
	rosa := seedDirectorySupplier(t, gdb, "Rosa", "farm", 4.5)
	seedDirectorySupplier(t, gdb, "Dev", "wholesaler", 3.8)

	products := []models.Product{
		{Name: "Roma Tomatoes", Category: "vegetables", Price: 2.00, Unit: "kg", Quantity: 10, SupplierID: rosa.ID, IsAvailable: true},
		{Name: "Honeycrisp Apples", Category: "fruits", Price: 4.00, Unit: "kg", Quantity: 10, SupplierID: rosa.ID, IsAvailable: true},
		{Name: "Retired Squash", Category: "vegetables", Price: 9.00, Unit: "kg", Quantity: 0, SupplierID: rosa.ID, IsAvailable: false},
	}
	for i := range products {
		require.NoError(t, gdb.Create(&products[i]).Error)
	}

	buyer := &models.User{Name: "Maya", Email: "maya@example.test", PasswordHash: "x", Role: enums.UserRoleStallOwner}
	require.NoError(t, gdb.Create(buyer).Error)
	orders := []models.Order{
		{OrderNumber: "BB1", BuyerID: buyer.ID, SupplierID: rosa.ID, Subtotal: 10, Total: 10, Status: enums.OrderStatusDelivered, OrderDate: time.Now()},
		{OrderNumber: "BB2", BuyerID: buyer.ID, SupplierID: rosa.ID, Subtotal: 10, Total: 10, Status: enums.OrderStatusPending, OrderDate: time.Now()},
	}
	for i := range orders {
		require.NoError(t, gdb.Create(&orders[i]).Error)
	}

	svc := newDirectoryService(t, gdb)
	page, err := svc.List(context.Background(), DirectoryFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 2)
	assert.Equal(t, int64(2), page.Pagination.TotalSuppliers)

	var entry DirectoryEntry
	for _, candidate := range page.Suppliers {
		if candidate.ID == rosa.ID {
			entry = candidate
		}
	}
	require.Equal(t, rosa.ID, entry.ID)
	assert.Equal(t, int64(2), entry.ProductCount)
	assert.Equal(t, int64(1), entry.TotalOrders)
	assert.Equal(t, 3.0, entry.AvgPrice)
	assert.ElementsMatch(t, []string{"vegetables", "fruits"}, entry.Categories)
}

func TestDirectorySortByRating(t *testing.T) {
	gdb := setupDirectoryTestDB(t)
	seedDirectorySupplier(t, gdb, "Rosa", "farm", 4.5)
	seedDirectorySupplier(t, gdb, "Dev", "wholesaler", 3.8)
	svc := newDirectoryService(t, gdb)

	page, err := svc.List(context.Background(), DirectoryFilters{SortBy: "rating"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 2)
	assert.Equal(t, "Rosa", page.Suppliers[0].Name)
}

func TestDirectoryFilters(t *testing.T) {
	gdb := setupDirectoryTestDB(t)
	seedDirectorySupplier(t, gdb, "Rosa", "farm", 4.5)
	seedDirectorySupplier(t, gdb, "Dev", "wholesaler", 3.8)
	svc := newDirectoryService(t, gdb)

	page, err := svc.List(context.Background(), DirectoryFilters{BusinessType: "farm"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 1)
	assert.Equal(t, "Rosa", page.Suppliers[0].Name)

	page, err = svc.List(context.Background(), DirectoryFilters{Search: "dev"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 1)
	assert.Equal(t, "Dev", page.Suppliers[0].Name)
}

func TestDirectoryLocationAndRatingFilters(t *testing.T) {
	gdb := setupDirectoryTestDB(t)
	rosa := seedDirectorySupplier(t, gdb, "Rosa", "farm", 4.5)
	dev := seedDirectorySupplier(t, gdb, "Dev", "wholesaler", 3.8)

	rosaAddr := "14 Orchard Road, Porto Verde"
	devAddr := "7 Harbour Street, Cabo Azul"
	require.NoError(t, gdb.Model(rosa).Update("address", rosaAddr).Error)
	require.NoError(t, gdb.Model(dev).Update("address", devAddr).Error)

	svc := newDirectoryService(t, gdb)

	page, err := svc.List(context.Background(), DirectoryFilters{Location: "porto"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 1)
	assert.Equal(t, "Rosa", page.Suppliers[0].Name)

	minRating := 4.0
	page, err = svc.List(context.Background(), DirectoryFilters{MinRating: &minRating}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 1)
	assert.Equal(t, "Rosa", page.Suppliers[0].Name)

	// free-text search also reaches the address column
	page, err = svc.List(context.Background(), DirectoryFilters{Search: "harbour"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Suppliers, 1)
	assert.Equal(t, "Dev", page.Suppliers[0].Name)
}

func TestDirectoryGet(t *testing.T) {
	gdb := setupDirectoryTestDB(t)
	rosa := seedDirectorySupplier(t, gdb, "Rosa", "farm", 4.5)
	buyer := &models.User{Name: "Maya", Email: "maya@example.test", PasswordHash: "x", Role: enums.UserRoleStallOwner}
	require.NoError(t, gdb.Create(buyer).Error)
	svc := newDirectoryService(t, gdb)

	entry, err := svc.Get(context.Background(), rosa.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa", entry.Name)
	assert.NotNil(t, entry.Categories)

	_, err = svc.Get(context.Background(), buyer.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.Get(context.Background(), uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestBusinessTypes(t *testing.T) {
	gdb := setupDirectoryTestDB(t)
	seedDirectorySupplier(t, gdb, "Rosa", "farm", 4.5)
	seedDirectorySupplier(t, gdb, "Dev", "wholesaler", 3.8)
	seedDirectorySupplier(t, gdb, "Lena", "farm", 4.0)
	svc := newDirectoryService(t, gdb)

	types, err := svc.BusinessTypes(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"farm", "wholesaler"}, types)
}
