package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bazaarbuddy/bazaarbuddy-backend/api/controllers"
	"github.com/bazaarbuddy/bazaarbuddy-backend/api/middleware"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/analytics"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/auth"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/cart"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/orders"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/products"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/ratings"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/suppliers"
	"github.com/bazaarbuddy/bazaarbuddy-backend/internal/wishlist"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/config"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/db"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/logger"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/metrics"
	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/redis"
)

// Services groups every service the router mounts.
type Services struct {
	Auth      auth.Service
	Products  products.Service
	Suppliers suppliers.Service
	Cart      cart.Service
	Wishlist  wishlist.Service
	Orders    orders.Service
	Ratings   ratings.Service
	Analytics analytics.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
	)

	loginLimiter := passthrough
	registerLimiter := passthrough
	if redisClient != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
		registerPolicy := middleware.NewAuthRateLimitPolicy(
			"register",
			cfg.AuthRateLimit.RegisterWindow,
			cfg.AuthRateLimit.RegisterIPLimit,
			cfg.AuthRateLimit.RegisterEmailLimit,
		)
		loginLimiter = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, redisClient, logg)
	}

	requireAuth := middleware.Auth(cfg.JWT, logg)
	requireSupplier := middleware.RequireRole(enums.UserRoleSupplier.String(), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, readyProbe(redisClient)))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimiter).Post("/register", controllers.Register(svcs.Auth, logg))
			r.With(loginLimiter).Post("/login", controllers.Login(svcs.Auth, logg))
			r.With(requireAuth).Get("/me", controllers.Me(svcs.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(svcs.Products, logg))
			r.Get("/categories", controllers.ProductCategories(svcs.Products, logg))
			r.Get("/featured", controllers.ProductsFeatured(svcs.Products, logg))
			r.Get("/{id}", controllers.ProductGet(svcs.Products, svcs.Ratings, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireSupplier)
				r.Get("/my-products", controllers.ProductsMine(svcs.Products, logg))
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Put("/bulk-update", controllers.ProductsBulkUpdate(svcs.Products, logg))
				r.Put("/{id}", controllers.ProductUpdate(svcs.Products, logg))
				r.Delete("/{id}", controllers.ProductDelete(svcs.Products, logg))
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SuppliersList(svcs.Suppliers, logg))
			r.Get("/business-types", controllers.SupplierBusinessTypes(svcs.Suppliers, logg))
			r.Get("/{id}", controllers.SupplierGet(svcs.Suppliers, svcs.Products, svcs.Ratings, logg))
		})

		r.Get("/search/suggestions", controllers.SearchSuggestions(svcs.Products, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Put("/items/{itemId}", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.WishlistGet(svcs.Wishlist, logg))
			r.Post("/toggle/{productId}", controllers.WishlistToggle(svcs.Wishlist, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/my", controllers.OrdersMine(svcs.Orders, logg))
			r.Get("/{id}", controllers.OrderGet(svcs.Orders, logg))
			r.With(requireSupplier).Put("/{id}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
		})

		r.Route("/ratings", func(r chi.Router) {
			r.Get("/supplier/{supplierId}", controllers.RatingsForSupplier(svcs.Ratings, logg))
			r.With(requireAuth).Post("/", controllers.RatingCreate(svcs.Ratings, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(requireAuth, requireSupplier)
			r.Get("/supplier", controllers.SupplierAnalytics(svcs.Analytics, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(requireAuth, requireSupplier)
			r.Get("/alerts", controllers.InventoryAlerts(svcs.Products, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// readyProbe hides the typed nil redis client from the readiness check.
func readyProbe(client *redis.Client) interface{ Ping(ctx context.Context) error } {
	if client == nil {
		return nil
	}
	return client
}
