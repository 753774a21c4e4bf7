package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/refarm-eos/refarm-backend/api/controllers"
	"github.com/refarm-eos/refarm-backend/api/routes"
	"github.com/refarm-eos/refarm-backend/internal/accounts"
	"github.com/refarm-eos/refarm-backend/internal/analytics"
	"github.com/refarm-eos/refarm-backend/internal/billing"
	cartsvc "github.com/refarm-eos/refarm-backend/internal/cart"
	"github.com/refarm-eos/refarm-backend/internal/identity"
	"github.com/refarm-eos/refarm-backend/internal/orders"
	"github.com/refarm-eos/refarm-backend/internal/products"
	"github.com/refarm-eos/refarm-backend/pkg/auth/session"
	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/db"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
	"github.com/refarm-eos/refarm-backend/pkg/metrics"
	"github.com/refarm-eos/refarm-backend/pkg/migrate"
	"github.com/refarm-eos/refarm-backend/pkg/redis"
)

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var verifier identity.Verifier
	if cfg.FeatureFlags.MockLineAuth {
		logg.Warn(context.Background(), "LINE verification is mocked; do not run this in production")
		verifier = identity.NewMockVerifier()
	} else {
		verifier, err = identity.NewLineVerifier(cfg.Line)
		if err != nil {
			logg.Error(context.Background(), "failed to create line verifier", err)
			os.Exit(1)
		}
	}

	accountRepo := accounts.NewRepository(dbClient.DB())

	identityService, err := identity.NewService(identity.ServiceParams{
		Accounts: accountRepo,
		Verifier: verifier,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	accountService, err := accounts.NewService(accounts.ServiceParams{
		Repo:     accountRepo,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo: products.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartStore, err := cartsvc.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:    cartStore,
		Products: productService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:         orders.NewRepository(dbClient.DB()),
		Tx:           dbClient,
		Products:     productService,
		Cart:         cartStore,
		DeadlineDays: cfg.Orders.CancelDeadlineDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		Repo: billing.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		Repo: analytics.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Metrics:     httpMetrics,
			Sessions:    sessionManager,
			AuthLimiter: redisClient,
			ReadinessPings: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			IdentityService: identityService,
			AccountService:  accountService,
			ProductService:  productService,
			CartService:     cartService,
			OrderService:    orderService,
			BillingService:  billingService,
			AnalyticsSvc:    analyticsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
