package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/cart"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/users"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/wishlist"
	pkgauth "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/auth"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
		&models.WishlistItem{},
	))
	return gdb
}

func authServiceJWT() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "auth-test-secret",
		Issuer:            "bazaarbuddy",
		ExpirationMinutes: 60,
	}
}

func newAuthService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:           gormTxRunner{db: gdb},
		UserRepo:     users.NewRepository(gdb),
		CartRepo:     cart.NewRepository(gdb),
		WishlistRepo: wishlist.NewRepository(gdb),
		JWT:          authServiceJWT(),
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	})
	require.NoError(t, err)
	return svc
}

func registerTestUser(t *testing.T, svc Service, email, role string) AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Maya Okafor",
		Email:    email,
		Password: "market-day-42",
		Role:     role,
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesCartAndWishlist(t *testing.T) {
	gdb := setupAuthTestDB(t)
	svc := newAuthService(t, gdb)

	resp := registerTestUser(t, svc, "Maya@Stall42.test", "stall_owner")
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "maya@stall42.test", resp.User.Email)
	assert.Equal(t, enums.UserRoleStallOwner, resp.User.Role)

	claims, err := pkgauth.ParseAccessToken(authServiceJWT(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	var cartCount, wishlistCount int64
	require.NoError(t, gdb.Model(&models.Cart{}).Where("user_id = ?", resp.User.ID).Count(&cartCount).Error)
	require.NoError(t, gdb.Model(&models.Wishlist{}).Where("user_id = ?", resp.User.ID).Count(&wishlistCount).Error)
	assert.Equal(t, int64(1), cartCount)
	assert.Equal(t, int64(1), wishlistCount)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	gdb := setupAuthTestDB(t)
	svc := newAuthService(t, gdb)

	registerTestUser(t, svc, "rosa@example.test", "supplier")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Rosa Again",
		Email:    "ROSA@example.test",
		Password: "another-secret",
		Role:     "supplier",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, http.StatusBadRequest, pkgerrors.MetadataFor(typed.Code()).HTTPStatus)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	gdb := setupAuthTestDB(t)
	svc := newAuthService(t, gdb)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.test",
		Password: "whatever-12",
		Role:     "admin",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLogin(t *testing.T) {
	gdb := setupAuthTestDB(t)
	svc := newAuthService(t, gdb)
	registerTestUser(t, svc, "jonas@example.test", "buyer")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Jonas@Example.test",
		Password: "market-day-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "jonas@example.test",
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Invalid credentials", typed.Message())
	assert.Equal(t, http.StatusBadRequest, pkgerrors.MetadataFor(typed.Code()).HTTPStatus)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.test",
		Password: "market-day-42",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "Invalid credentials", typed.Message())
}

func TestMe(t *testing.T) {
	gdb := setupAuthTestDB(t)
	svc := newAuthService(t, gdb)
	resp := registerTestUser(t, svc, "maya@stall42.test", "stall_owner")

	me, err := svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "maya@stall42.test", me.Email)

	_, err = svc.Me(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
