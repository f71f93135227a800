package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brewtab/coffeehouse-backend/config"
	"github.com/brewtab/coffeehouse-backend/internal/app/controller"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/app/service"
	"github.com/brewtab/coffeehouse-backend/internal/db"
	"github.com/brewtab/coffeehouse-backend/internal/middleware"
	"github.com/brewtab/coffeehouse-backend/internal/router"
	"github.com/brewtab/coffeehouse-backend/internal/scheduler"
	"github.com/brewtab/coffeehouse-backend/internal/storage"
	"github.com/brewtab/coffeehouse-backend/internal/websocket"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
	"github.com/brewtab/coffeehouse-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting COFFEEHOUSE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional. Without it order events only reach clients of
	// this instance.
	redisAvailable := false
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, order events stay instance-local", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		redisAvailable = true
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
	}

	// Order board hub and event fan-out
	hub := websocket.NewHub()
	go hub.Run()

	relayCtx, cancelRelay := context.WithCancel(context.Background())
	defer cancelRelay()

	notifier := websocket.NewNotifier(hub, redisAvailable)
	if redisAvailable {
		go notifier.RunRedisRelay(relayCtx)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	saleRepo := repository.NewSaleRepository(db.GetDB())
	inventoryRepo := repository.NewInventoryRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.Expiry,
		cfg.Auth.BcryptCost,
	)
	productService := service.NewProductService(productRepo)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		saleRepo,
		userRepo,
		db.GetDB(),
		cfg.Pricing.TaxRate,
		cfg.Pricing.LoyaltyEarnRate,
		notifier,
	)
	salesService := service.NewSalesService(saleRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo)

	// Product image uploads need S3 credentials. The endpoint degrades to
	// 503 when they are missing.
	var s3Storage *storage.S3Storage
	if cfg.S3.Bucket != "" {
		s3Storage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService, s3Storage)
	orderController := controller.NewOrderController(orderService, hub)
	salesController := controller.NewSalesController(salesService)
	inventoryController := controller.NewInventoryController(inventoryService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Daily low-stock and expiration sweep
	inventoryScheduler := scheduler.NewInventoryScheduler(inventoryService)
	if err := inventoryScheduler.Start(); err != nil {
		logger.Fatal("Failed to start inventory scheduler", err)
	}
	defer inventoryScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		orderController,
		salesController,
		inventoryController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced server shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
