package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/cart"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/users"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/wishlist"
	pkgauth "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/auth"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db/models"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/security"
)

// txRunner runs a function inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	DB           txRunner
	UserRepo     *users.Repository
	CartRepo     *cart.Repository
	WishlistRepo *wishlist.Repository
	JWT          config.JWTConfig
	Password     config.PasswordConfig
	Now          func() time.Time
}

// Service exposes account registration and login.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (UserDTO, error)
}

type service struct {
	db           txRunner
	userRepo     *users.Repository
	cartRepo     *cart.Repository
	wishlistRepo *wishlist.Repository
	jwt          config.JWTConfig
	password     config.PasswordConfig
	now          func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		db:           params.DB,
		userRepo:     params.UserRepo,
		cartRepo:     params.CartRepo,
		wishlistRepo: params.WishlistRepo,
		jwt:          params.JWT,
		password:     params.Password,
		now:          params.Now,
	}, nil
}

// Register creates the account together with its empty cart and
// wishlist in one transaction, then mints an access token.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	role, err := enums.ParseUserRole(req.Role)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if exists {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeConflict, "User with this email already exists")
	}

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        req.Phone,
		Address:      req.Address,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).CreateForUser(ctx, user.ID); err != nil {
			return err
		}
		return s.wishlistRepo.WithTx(tx).CreateForUser(ctx, user.ID)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "User with this email already exists")
		}
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}

	token, err := s.mint(user)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    NewUserDTO(user),
	}, nil
}

// Login verifies credentials and mints an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid credentials")
		}
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid credentials")
	}

	token, err := s.mint(user)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    NewUserDTO(user),
	}, nil
}

// Me returns the authenticated account.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return NewUserDTO(user), nil
}

func (s *service) mint(user *models.User) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return token, nil
}
