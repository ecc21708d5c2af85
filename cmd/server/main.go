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

	"github.com/conutlabs/chiefops/internal/adapter/cache"
	"github.com/conutlabs/chiefops/internal/adapter/http/fiber/handlers"
	"github.com/conutlabs/chiefops/internal/adapter/http/fiber/middleware"
	"github.com/conutlabs/chiefops/internal/adapter/storage/csvtable"
	"github.com/conutlabs/chiefops/internal/observability/telemetry"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/internal/service/agent"
	"github.com/conutlabs/chiefops/internal/service/combo"
	"github.com/conutlabs/chiefops/internal/service/expansion"
	"github.com/conutlabs/chiefops/internal/service/forecast"
	"github.com/conutlabs/chiefops/internal/service/growth"
	"github.com/conutlabs/chiefops/internal/service/health"
	"github.com/conutlabs/chiefops/internal/service/intent"
	"github.com/conutlabs/chiefops/internal/service/staffing"
	"github.com/conutlabs/chiefops/pkg/config"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.App.Environment == "development" {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
		}
	}

	logger.Info("Starting Chief Ops Agent",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.Tracing.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.App.Name, cfg.App.Version, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Initialize Dataset Store (static CSV snapshots)
	store := csvtable.NewStore(cfg.Data, logger)

	branches, err := store.Branches(context.Background())
	if err != nil {
		logger.Fatal("Failed to load dataset snapshots",
			zap.String("dir", cfg.Data.Dir),
			zap.Error(err),
		)
	}
	logger.Info("Dataset snapshots loaded", zap.Strings("branches", branches))

	// 5. Initialize Answer Cache (Redis when configured, local otherwise)
	var answerCache ports.Cache
	if cfg.Redis.URL != "" {
		answerCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to local cache", zap.Error(err))
			answerCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
		}
	} else {
		answerCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
	}
	defer answerCache.Close()

	// 6. Initialize Analytics Engines (Business Logic Layer)
	comboService := combo.NewService(store, cfg.Analytics.Combo, logger)
	forecastService := forecast.NewService(store, cfg.Analytics.Forecast, logger)
	expansionService := expansion.NewService(store, cfg.Analytics.Expansion, logger)
	growthService := growth.NewService(store, cfg.Analytics.Growth, logger)
	staffingService := staffing.NewService(store, logger)

	// 7. Initialize Intent Classifier and Dispatcher
	classifier := intent.NewClassifier(branches, logger)
	dispatcher := agent.NewDispatcher(
		classifier, store,
		comboService, forecastService, expansionService, growthService, staffingService,
		answerCache, cfg.Cache.AnswerTTL, logger,
	)

	// 8. Initialize Health Service
	healthService := health.NewService(store, answerCache, cfg.App.Version, logger)

	// 9. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.RequestID())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	app.Use(middleware.CircuitBreaker(logger))

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		path := cfg.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	analyticsHandler := handlers.NewAnalyticsHandler(
		comboService, forecastService, expansionService, growthService, staffingService,
		dispatcher, logger,
	)
	analyticsHandler.RegisterRoutes(app)

	// 10. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 11. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}
