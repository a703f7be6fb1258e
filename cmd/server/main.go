package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/flood-monitor/internal/api"
	"github.com/bobby-s-dev/flood-monitor/internal/config"
	"github.com/bobby-s-dev/flood-monitor/internal/observability"
	"github.com/bobby-s-dev/flood-monitor/internal/scheduler"
	"github.com/bobby-s-dev/flood-monitor/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	level := zap.NewAtomicLevel()
	logger, err := newLogger(level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Flood Monitor Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		logger.Warn("Invalid LOG_LEVEL, keeping info", zap.String("level", cfg.Server.LogLevel))
	}

	metrics := observability.NewMetrics()

	aggregator, err := services.NewAggregator(cfg, metrics, logger)
	if err != nil {
		logger.Fatal("Failed to initialize aggregator", zap.Error(err))
	}

	cache := services.NewSnapshotCache(aggregator, cfg.Cache.TTL, clockwork.NewRealClock(), metrics, logger)

	var warmer *scheduler.Scheduler
	var warmerAPI api.Scheduler
	if cfg.Scheduler.WarmSchedule != "" {
		warmer = scheduler.NewScheduler(cache, cfg.Scheduler.WarmSchedule, logger)
		warmerAPI = warmer
	} else {
		logger.Info("Cache warming disabled, snapshots are built on demand")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JSONEncoder:  fiber.DefaultJSONEncoder,
		ErrorHandler: errorHandler,
	})

	handler := api.NewHandler(cache, aggregator, warmerAPI, cfg.Gazetteer, logger)
	api.SetupRoutes(app, handler)

	if warmer != nil {
		if err := warmer.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if warmer != nil {
		warmer.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// newLogger builds the production logger around level so it can be adjusted
// once configuration is loaded.
func newLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	return zcfg.Build()
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
