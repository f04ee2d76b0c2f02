package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/responses"
	"github.com/bazaarbuddy/bazaarbuddy-backend/api/routes"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/analytics"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/auth"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/cart"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/orders"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/ratings"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/seed"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/suppliers"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/users"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/wishlist"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/logger"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/metrics"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/migrate"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.SetExposeDetails(!cfg.App.IsProd())

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.Bootstrap(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to prepare schema", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	if cfg.FeatureFlags.SeedDemo {
		if err := seed.Run(context.Background(), dbClient, cfg, logg); err != nil {
			logg.Error(context.Background(), "failed to seed demo data", err)
			os.Exit(1)
		}
	}

	svcs, err := buildServices(cfg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, svcs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
			os.Exit(1)
		}
	}
}

func buildServices(cfg *config.Config, dbClient *db.Client) (routes.Services, error) {
	gormDB := dbClient.DB()

	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	supplierRepo := suppliers.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	wishlistRepo := wishlist.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	ratingRepo := ratings.NewRepository(gormDB)
	analyticsRepo := analytics.NewRepository(gormDB)

	authSvc, err := auth.NewService(auth.ServiceParams{
		DB:           dbClient,
		UserRepo:     userRepo,
		CartRepo:     cartRepo,
		WishlistRepo: wishlistRepo,
		JWT:          cfg.JWT,
		Password:     cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	productSvc, err := products.NewService(products.ServiceParams{
		Repo:      productRepo,
		Inventory: cfg.Inventory,
	})
	if err != nil {
		return routes.Services{}, err
	}

	supplierSvc, err := suppliers.NewService(suppliers.ServiceParams{Repo: supplierRepo})
	if err != nil {
		return routes.Services{}, err
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	orderSvc, err := orders.NewService(orders.ServiceParams{
		DB:          dbClient,
		OrderRepo:   orderRepo,
		ProductRepo: productRepo,
		Orders:      cfg.Orders,
	})
	if err != nil {
		return routes.Services{}, err
	}

	ratingSvc, err := ratings.NewService(ratings.ServiceParams{
		DB:         dbClient,
		RatingRepo: ratingRepo,
		OrderRepo:  orderRepo,
		UserRepo:   userRepo,
	})
	if err != nil {
		return routes.Services{}, err
	}

	analyticsSvc, err := analytics.NewService(analytics.ServiceParams{Repo: analyticsRepo})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:      authSvc,
		Products:  productSvc,
		Suppliers: supplierSvc,
		Cart:      cartSvc,
		Wishlist:  wishlistSvc,
		Orders:    orderSvc,
		Ratings:   ratingSvc,
		Analytics: analyticsSvc,
	}, nil
}
