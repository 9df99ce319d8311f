package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jykim/modacloset-backend/config"
	"github.com/jykim/modacloset-backend/internal/app/controller"
	"github.com/jykim/modacloset-backend/internal/app/repository"
	"github.com/jykim/modacloset-backend/internal/app/service"
	"github.com/jykim/modacloset-backend/internal/db"
	"github.com/jykim/modacloset-backend/internal/events"
	"github.com/jykim/modacloset-backend/internal/middleware"
	"github.com/jykim/modacloset-backend/internal/router"
	"github.com/jykim/modacloset-backend/internal/scheduler"
	"github.com/jykim/modacloset-backend/internal/storage"
	"github.com/jykim/modacloset-backend/pkg/logger"
	appRedis "github.com/jykim/modacloset-backend/pkg/redis"
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

	logger.Info("Starting MODACLOSET Backend Server", map[string]interface{}{
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

	// Optional Redis + WebSocket hub for cart badge updates
	var publisher events.Publisher
	var hub *events.Hub
	relayCtx, cancelRelay := context.WithCancel(context.Background())
	defer cancelRelay()

	if cfg.Redis.Enabled {
		if err := appRedis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer appRedis.Close()

		publisher = events.NewRedisPublisher()
		hub = events.NewHub()
		go hub.Run()
		go hub.RunRelay(relayCtx)
	} else {
		logger.Info("Redis disabled, cart events will not be published")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, publisher)
	orderService := service.NewOrderService(orderRepo, cartRepo, db.GetDB())

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)
	uploadController := controller.NewUploadController(s3Storage)

	var wsController *controller.WSController
	if hub != nil {
		wsController = controller.NewWSController(hub, cfg.CORS.AllowedOrigins)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start pending order expiry scheduler
	orderScheduler := scheduler.NewOrderScheduler(orderService, cfg.Order.PendingExpiry)
	if err := orderScheduler.Start(); err != nil {
		logger.Fatal("Failed to start order scheduler", err)
	}
	defer orderScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		uploadController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
