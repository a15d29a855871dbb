package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samuelezeh/ecommapp-backend/api/controllers"
	"github.com/samuelezeh/ecommapp-backend/api/middleware"
	"github.com/samuelezeh/ecommapp-backend/internal/categories"
	"github.com/samuelezeh/ecommapp-backend/internal/products"
	"github.com/samuelezeh/ecommapp-backend/internal/reviews"
	"github.com/samuelezeh/ecommapp-backend/internal/users"
	"github.com/samuelezeh/ecommapp-backend/internal/wishlist"
	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	"github.com/samuelezeh/ecommapp-backend/pkg/db"
	"github.com/samuelezeh/ecommapp-backend/pkg/logger"
	"github.com/samuelezeh/ecommapp-backend/pkg/metrics"
	"github.com/samuelezeh/ecommapp-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	client *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	userService users.Service,
	categoryService categories.Service,
	productService products.Service,
	reviewService reviews.Service,
	wishlistService wishlist.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	registerPolicy := middleware.NewRegisterRateLimitPolicy(
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterUsernameLimit,
	)
	var limiterStore middleware.RateLimiterStore
	if redisClient != nil {
		limiterStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, client))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RegisterRateLimit(registerPolicy, limiterStore, logg)).
				Post("/", controllers.UserCreate(userService, logg))
			r.Get("/", controllers.UserList(userService, logg))
			if !cfg.App.IsProd() {
				r.Post("/superuser", controllers.SuperuserCreate(userService, logg))
			}

			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", controllers.UserGet(userService, logg))
				// Updates apply partial patches; PUT and PATCH share a handler.
				r.Put("/", controllers.UserUpdate(userService, logg))
				r.Patch("/", controllers.UserUpdate(userService, logg))
				r.Delete("/", controllers.UserDelete(userService, logg))
				r.Put("/profile", controllers.UserProfileUpdate(userService, logg))
				r.Patch("/profile", controllers.UserProfileUpdate(userService, logg))

				r.Route("/wishlist", func(r chi.Router) {
					r.Get("/", controllers.WishlistGet(wishlistService, logg))
					r.Post("/items", controllers.WishlistAddItem(wishlistService, logg))
					r.Delete("/items/{itemID}", controllers.WishlistRemoveItem(wishlistService, logg))
				})
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(categoryService, logg))
			r.Get("/", controllers.CategoryList(categoryService, logg))
			r.Route("/{categoryID}", func(r chi.Router) {
				r.Get("/", controllers.CategoryGet(categoryService, logg))
				r.Put("/", controllers.CategoryUpdate(categoryService, logg))
				r.Patch("/", controllers.CategoryUpdate(categoryService, logg))
				r.Delete("/", controllers.CategoryDelete(categoryService, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(productService, logg))
			r.Get("/", controllers.ProductList(productService, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.ProductGet(productService, logg))
				r.Put("/", controllers.ProductUpdate(productService, logg))
				r.Patch("/", controllers.ProductUpdate(productService, logg))
				r.Delete("/", controllers.ProductDelete(productService, logg))

				r.Route("/reviews", func(r chi.Router) {
					r.Post("/", controllers.ReviewCreate(reviewService, logg))
					r.Get("/", controllers.ReviewList(reviewService, logg))
					r.Route("/{reviewID}", func(r chi.Router) {
						r.Get("/", controllers.ReviewGet(reviewService, logg))
						r.Put("/", controllers.ReviewUpdate(reviewService, logg))
						r.Patch("/", controllers.ReviewUpdate(reviewService, logg))
						r.Delete("/", controllers.ReviewDelete(reviewService, logg))
					})
				})
			})
		})
	})

	return r
}
