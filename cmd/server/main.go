package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/voltgrid/opsconsole/internal/adapter/cache"
	"github.com/voltgrid/opsconsole/internal/adapter/http/fiber/handlers"
	"github.com/voltgrid/opsconsole/internal/adapter/http/fiber/middleware"
	"github.com/voltgrid/opsconsole/internal/adapter/queue"
	"github.com/voltgrid/opsconsole/internal/adapter/storage/postgres"
	"github.com/voltgrid/opsconsole/internal/adapter/vault"
	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/infrastructure/circuitbreaker"
	"github.com/voltgrid/opsconsole/internal/observability/telemetry"
	"github.com/voltgrid/opsconsole/internal/ports"
	"github.com/voltgrid/opsconsole/internal/service/account"
	"github.com/voltgrid/opsconsole/internal/service/auth"
	"github.com/voltgrid/opsconsole/internal/service/health"
	"github.com/voltgrid/opsconsole/internal/service/ocpi"
	"github.com/voltgrid/opsconsole/internal/service/registry"
	"github.com/voltgrid/opsconsole/internal/service/snapshot"
	"github.com/voltgrid/opsconsole/pkg/config"
)

const (
	serviceName    = "voltgrid-opsconsole"
	serviceVersion = "v1.0.0"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting VoltGrid Operations Console",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Secrets from Vault override config when a Vault address is set
	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		secrets, err := vault.NewSecretManager(addr, os.Getenv("VAULT_TOKEN"))
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		if url, err := secrets.GetDatabaseURL(); err == nil {
			cfg.Database.URL = url
		} else {
			logger.Warn("Database URL not found in Vault", zap.Error(err))
		}
		if secret, err := secrets.GetJWTSecret(); err == nil {
			cfg.JWT.Secret = secret
		} else {
			logger.Warn("JWT secret not found in Vault", zap.Error(err))
		}
	}

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// Database
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Cache: Redis when configured, in-process otherwise
	var appCache ports.Cache
	if cfg.Redis.URL != "" {
		appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	} else {
		logger.Warn("Redis not configured, using in-process cache")
		appCache = cache.NewLocalCache(time.Minute, logger)
	}

	// Message queue
	var messageQueue queue.MessageQueue
	if cfg.Queue.URL != "" {
		queueOpts := queue.Options{
			MaxReconnects: cfg.Queue.MaxReconnects,
			ReconnectWait: cfg.Queue.ReconnectWait,
		}
		switch cfg.Queue.Driver {
		case "rabbitmq":
			messageQueue, err = queue.NewRabbitMQQueue(cfg.Queue.URL, queueOpts, logger)
		default:
			messageQueue, err = queue.NewNATSQueue(cfg.Queue.URL, queueOpts, logger)
		}
		if err != nil {
			logger.Fatal("Failed to connect to message queue",
				zap.String("driver", cfg.Queue.Driver),
				zap.Error(err),
			)
		}
		defer messageQueue.Close()
	} else {
		logger.Warn("Queue not configured, events disabled")
	}

	// Repositories
	chargePointRepo := postgres.NewChargePointRepository(db, logger)
	sessionRepo := postgres.NewSessionRepository(db, logger)
	locationRepo := postgres.NewLocationRepository(db, logger)
	tariffRepo := postgres.NewTariffRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)
	partyRepo := postgres.NewPartyRepository(db, logger)
	analyticsRepo := postgres.NewAnalyticsRepository(db, logger)

	// Services
	authService := auth.NewService(userRepo, appCache, cfg.JWT.Secret, logger)
	snapshotService := snapshot.NewService(analyticsRepo, appCache, messageQueue, cfg.Analytics.SnapshotTTL, logger)
	registryService := registry.NewService(locationRepo, tariffRepo, partyRepo, chargePointRepo, sessionRepo, messageQueue, logger)
	accountService := account.NewService(userRepo, logger)

	ocpiClient := circuitbreaker.NewHTTPClientWithSettings(circuitbreaker.HTTPClientSettings{
		Timeout:          10 * time.Second,
		Name:             "roaming-credentials",
		MaxRequests:      uint32(cfg.CircuitBreaker.MaxRequests),
		Interval:         cfg.CircuitBreaker.Interval,
		BreakerTimeout:   cfg.CircuitBreaker.Timeout,
		FailureThreshold: 5,
		SuccessThreshold: 2,
	}, logger)
	ocpiService := ocpi.NewService(partyRepo, ocpiClient, ocpi.Config{
		CountryCode: cfg.Roaming.CountryCode,
		PartyID:     cfg.Roaming.PartyID,
		BaseURL:     cfg.Roaming.BaseURL,
	}, logger)

	// Health probes
	healthService := health.NewService(serviceVersion, logger)
	healthService.RegisterDatabase(sqlDB)
	if redisCache, ok := appCache.(*cache.RedisCache); ok {
		healthService.RegisterRedis(redisCache.Client())
	}
	if messageQueue != nil {
		healthService.RegisterQueue("queue", func(ctx context.Context) error {
			return messageQueue.Publish("health.ping", nil)
		})
	}

	// Refresh the usage snapshot when master data changes
	if messageQueue != nil {
		if err := messageQueue.Subscribe(registry.SubjectRegistryUpdated, func(data []byte) error {
			return snapshotService.Refresh(context.Background())
		}); err != nil {
			logger.Error("Failed to subscribe to registry updates", zap.Error(err))
		}
	}

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	} else {
		app.Use(middleware.DefaultCORS())
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		path := cfg.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 routes
	v1 := app.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	// Dashboard
	analyticsHandler := handlers.NewAnalyticsHandler(snapshotService, logger)
	protected.Get("/analytics/dashboard", analyticsHandler.Dashboard)
	protected.Get("/analytics/series", analyticsHandler.Series)
	protected.Get("/analytics/groups", analyticsHandler.Groups)
	protected.Get("/analytics/top", analyticsHandler.Top)
	protected.Get("/analytics/table", analyticsHandler.Table)
	protected.Get("/analytics/table/export", analyticsHandler.ExportTable)
	protected.Get("/analytics/filters", analyticsHandler.GetFilters)
	protected.Put("/analytics/filters", analyticsHandler.UpdateFilters)

	// Charge points
	chargePointHandler := handlers.NewChargePointHandler(registryService, logger)
	protected.Get("/charge-points", chargePointHandler.List)
	protected.Get("/charge-points/:id", chargePointHandler.Get)

	// Sessions
	sessionHandler := handlers.NewSessionHandler(registryService, logger)
	protected.Get("/sessions/active", sessionHandler.ListActive)
	protected.Get("/sessions/:id", sessionHandler.Get)
	protected.Get("/charge-points/:id/sessions", sessionHandler.ListByChargePoint)

	// Master data, operators and above
	editors := protected.Group("", middleware.RequireRole(domain.UserRoleAdmin, domain.UserRoleOperator))
	editors.Patch("/charge-points/:id/status", chargePointHandler.UpdateStatus)

	locationHandler := handlers.NewLocationHandler(registryService, logger)
	protected.Get("/locations", locationHandler.List)
	protected.Get("/locations/:id", locationHandler.Get)
	editors.Post("/locations", locationHandler.Create)
	editors.Put("/locations/:id", locationHandler.Update)
	editors.Delete("/locations/:id", locationHandler.Delete)

	tariffHandler := handlers.NewTariffHandler(registryService, logger)
	protected.Get("/tariffs", tariffHandler.List)
	protected.Get("/tariffs/:id", tariffHandler.Get)
	editors.Post("/tariffs", tariffHandler.Create)
	editors.Put("/tariffs/:id", tariffHandler.Update)
	editors.Delete("/tariffs/:id", tariffHandler.Delete)

	partyHandler := handlers.NewPartyHandler(registryService, ocpiService, logger)
	protected.Get("/parties", partyHandler.List)
	protected.Get("/parties/:id", partyHandler.Get)
	editors.Post("/parties", partyHandler.Create)
	editors.Delete("/parties/:id", partyHandler.Delete)
	editors.Post("/parties/:id/register", partyHandler.Register)
	editors.Delete("/parties/:id/register", partyHandler.Unregister)

	// User administration, admins only
	admins := protected.Group("", middleware.RequireRole(domain.UserRoleAdmin))
	userHandler := handlers.NewUserHandler(accountService, logger)
	admins.Get("/users", userHandler.List)
	admins.Get("/users/:id", userHandler.Get)
	admins.Patch("/users/:id/role", userHandler.UpdateRole)
	admins.Patch("/users/:id/status", userHandler.UpdateStatus)
	admins.Delete("/users/:id", userHandler.Delete)

	// Start and wait for shutdown
	go func() {
		addr := listenAddr(cfg.HTTP.Port)
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

func listenAddr(port int) string {
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf(":%d", port)
}
