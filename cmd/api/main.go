package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/apexbill/apexbill-backend/api/routes"
	"github.com/apexbill/apexbill-backend/internal/auth"
	"github.com/apexbill/apexbill-backend/internal/businesses"
	"github.com/apexbill/apexbill-backend/internal/distributors"
	"github.com/apexbill/apexbill-backend/internal/invoices"
	"github.com/apexbill/apexbill-backend/internal/products"
	"github.com/apexbill/apexbill-backend/internal/setuptokens"
	"github.com/apexbill/apexbill-backend/internal/users"
	"github.com/apexbill/apexbill-backend/pkg/config"
	"github.com/apexbill/apexbill-backend/pkg/db"
	"github.com/apexbill/apexbill-backend/pkg/logger"
	"github.com/apexbill/apexbill-backend/pkg/metrics"
	"github.com/apexbill/apexbill-backend/pkg/migrate"
	"github.com/apexbill/apexbill-backend/pkg/redis"
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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
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

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	businessesRepo := businesses.NewRepository(gormDB)
	distributorsRepo := distributors.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	invoicesRepo := invoices.NewRepository(gormDB)
	tokensRepo := setuptokens.NewRepository(gormDB)

	authService, err := auth.NewService(usersRepo, tokensRepo, dbClient, cfg.JWT, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	usersService, err := users.NewService(usersRepo, businessesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	businessesService, err := businesses.NewService(businessesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create businesses service", err)
		os.Exit(1)
	}
	distributorsService, err := distributors.NewService(distributorsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create distributors service", err)
		os.Exit(1)
	}
	productsService, err := products.NewService(productsRepo, distributorsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}
	invoicesService, err := invoices.NewService(invoicesRepo, distributorsRepo, productsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Registry:     registry,
			HTTPMetrics:  httpMetrics,
			Auth:         authService,
			Users:        usersService,
			Businesses:   businessesService,
			Distributors: distributorsService,
			Products:     productsService,
			Invoices:     invoicesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
