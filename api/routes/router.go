package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/refarm-eos/refarm-backend/api/controllers"
	"github.com/refarm-eos/refarm-backend/api/middleware"
	"github.com/refarm-eos/refarm-backend/internal/accounts"
	"github.com/refarm-eos/refarm-backend/internal/analytics"
	"github.com/refarm-eos/refarm-backend/internal/billing"
	cartsvc "github.com/refarm-eos/refarm-backend/internal/cart"
	"github.com/refarm-eos/refarm-backend/internal/identity"
	"github.com/refarm-eos/refarm-backend/internal/orders"
	"github.com/refarm-eos/refarm-backend/internal/products"
	"github.com/refarm-eos/refarm-backend/pkg/auth/session"
	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
	"github.com/refarm-eos/refarm-backend/pkg/metrics"
)

// AuthLimiter is the fixed-window counter backing the login throttles.
type AuthLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RouterParams carries everything the HTTP surface needs. The router holds no
// state of its own; it only binds handlers to middleware.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	Metrics         *metrics.HTTPMetrics
	Sessions        session.AccessSessionChecker
	AuthLimiter     AuthLimiter
	ReadinessPings  map[string]controllers.Pinger
	IdentityService *identity.Service
	AccountService  *accounts.Service
	ProductService  *products.Service
	CartService     *cartsvc.Service
	OrderService    *orders.Service
	BillingService  *billing.Service
	AnalyticsSvc    *analytics.Service
}

// NewRouter assembles the full route tree.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
	}
	if cfg != nil {
		r.Use(middleware.CORS(cfg.CORS))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.ReadinessPings))
	})
	r.Handle("/metrics", promhttp.Handler())

	loginPolicy := middleware.NewAuthRateLimitPolicy("login", 0, 0, 0)
	if cfg != nil {
		loginPolicy = middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.AuthLimiter, logg)).Post("/line", controllers.LineLogin(p.IdentityService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.AuthLimiter, logg)).Post("/admin", controllers.AdminLogin(p.IdentityService, logg))
		r.Post("/refresh", controllers.Refresh(p.IdentityService, logg))
		r.Post("/logout", controllers.Logout(p.IdentityService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog browsing stays public so the storefront renders before login.
		r.Get("/products", controllers.ProductList(p.ProductService, logg))
		r.Get("/products/{productID}", controllers.ProductGet(p.ProductService, logg))
		r.Get("/farmers", controllers.FarmerList(p.AccountService, logg))
		r.Get("/farmers/{farmerID}", controllers.FarmerGet(p.AccountService, logg))

		r.Group(func(r chi.Router) {
			if cfg != nil {
				r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			}

			r.Get("/me", controllers.Me(p.AccountService, logg))
			r.Post("/register/restaurant", controllers.RestaurantRegister(p.AccountService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.RoleRestaurant))

				r.Put("/me/restaurant", controllers.RestaurantUpdate(p.AccountService, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartGet(p.CartService, logg))
					r.Delete("/", controllers.CartClear(p.CartService, logg))
					r.Post("/items", controllers.CartAddItem(p.CartService, logg))
					r.Put("/items/{productID}", controllers.CartUpdateItem(p.CartService, logg))
					r.Delete("/items/{productID}", controllers.CartRemoveItem(p.CartService, logg))
					r.Post("/favorites/{productID}", controllers.FavoriteAdd(p.CartService, logg))
					r.Delete("/favorites/{productID}", controllers.FavoriteRemove(p.CartService, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.OrderList(p.OrderService, logg))
					r.Post("/", controllers.OrderCheckout(p.OrderService, logg))
					r.Get("/{orderID}", controllers.OrderGet(p.OrderService, logg))
					r.Put("/{orderID}/items", controllers.OrderUpdateItems(p.OrderService, logg))
					r.Post("/{orderID}/cancel", controllers.OrderCancel(p.OrderService, logg))
				})

				r.Get("/billing/usage", controllers.BillingUsage(p.BillingService, logg))
			})

			r.Route("/farm/products", func(r chi.Router) {
				r.Use(middleware.RequireRoles(logg, enums.RoleFarmer, enums.RoleAdmin))

				r.Post("/", controllers.ProductCreate(p.ProductService, logg))
				r.Patch("/{productID}", controllers.ProductUpdate(p.ProductService, logg))
				r.Delete("/{productID}", controllers.ProductDeactivate(p.ProductService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		if cfg != nil {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
		}
		r.Use(middleware.RequireRoles(logg, enums.RoleAdmin))

		r.Post("/farmers", controllers.FarmerRegister(p.AccountService, logg))
		r.Patch("/farmers/{farmerID}", controllers.FarmerUpdate(p.AccountService, logg))
		r.Get("/analytics/sales", controllers.SalesReport(p.AnalyticsSvc, logg))
	})

	return r
}
