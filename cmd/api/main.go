package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_market/internal/cache"
	"github.com/GTDGit/gtd_market/internal/config"
	"github.com/GTDGit/gtd_market/internal/database"
	"github.com/GTDGit/gtd_market/internal/handler"
	"github.com/GTDGit/gtd_market/internal/middleware"
	"github.com/GTDGit/gtd_market/internal/repository"
	"github.com/GTDGit/gtd_market/internal/service"
	"github.com/GTDGit/gtd_market/internal/sse"
	"github.com/GTDGit/gtd_market/internal/worker"
)

// main is the application entrypoint for the GTD Market registry API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("starting gtd market")

	// 3. Open the registry blob store
	blobs, closeStore, err := openBlobStore(cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("registry store unavailable")
		fmt.Fprintf(os.Stderr, "registry store unavailable: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	// 4. Repository
	registryRepo := repository.NewRegistryRepository(blobs, cfg.Store.Key)

	// 5. Notifications
	var generator service.TextGenerator
	if groq := service.NewGroqGenerator(&cfg.Notification); groq != nil {
		generator = groq
	} else {
		log.Warn().Msg("GROQ_API_KEY not set - admin notifications will use fallback text")
	}
	composer := service.NewNotificationComposer(generator, cfg.Notification.Timeout)
	notificationLog := service.NewNotificationLog(service.DefaultNotificationLogSize)
	hub := sse.NewHub()
	notificationWorker := worker.NewNotificationWorker(composer, notificationLog, sse.NewHubNotifier(hub), cfg.Notification.QueueSize)

	// 6. Services
	if cfg.OTP.MasterOverride {
		log.Warn().Msg("OTP master override enabled - do not use in production")
	}
	registrySvc := service.NewRegistryService(registryRepo, notificationWorker, cfg.OTP.MasterOverride)

	imageSvc, err := service.NewImageService(&cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("S3 service initialization failed - product image upload will be disabled")
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(registryRepo, cfg.Store.Driver),
		Shop:    handler.NewShopHandler(registrySvc),
		Product: handler.NewProductHandler(registrySvc, imageSvc),
		Order:   handler.NewOrderHandler(registrySvc),
		Admin:   handler.NewAdminHandler(registrySvc, notificationLog),
		SSE:     handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	otpLimiter := middleware.NewOTPAttemptLimiter(cfg.OTP.MaxAttempts, cfg.OTP.Window)
	defer otpLimiter.Stop()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, otpLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go notificationWorker.Start(ctx)
	go worker.NewSnapshotWorker(registryRepo, cfg.Worker.SnapshotInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// openBlobStore connects the backend selected by STORE_DRIVER. The returned
// func releases it.
func openBlobStore(cfg *config.Config) (repository.BlobStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := database.RunMigrations(db.DB, cfg.DB.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Info().Msg("migrations completed successfully")
		return repository.NewPostgresBlobStore(db), func() { db.Close() }, nil

	case config.StoreDriverRedis:
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info().Msg("redis connected successfully")
		return repository.NewRedisBlobStore(redisClient), func() { redisClient.Close() }, nil

	default:
		log.Warn().Msg("using in-memory registry store - data is lost on restart")
		return repository.NewMemoryBlobStore(), func() {}, nil
	}
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Shop    *handler.ShopHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Admin   *handler.AdminHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, otpLimiter *middleware.OTPAttemptLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Storefront and seller onboarding
	shops := router.Group("/v1/shops")
	{
		shops.POST("", handlers.Shop.CreateShop)
		shops.GET("", handlers.Shop.ListShops)
		shops.GET("/slug/:slug", handlers.Shop.GetShopBySlug)
		shops.GET("/:id", handlers.Shop.GetShop)
		shops.POST("/:id/verify", otpLimiter.Middleware(), handlers.Shop.VerifyOTP)
		shops.GET("/:id/products", handlers.Shop.ListShopProducts)
		shops.GET("/:id/orders", handlers.Shop.ListShopOrders)
	}

	// Product catalog
	products := router.Group("/v1/products")
	{
		products.POST("", handlers.Product.CreateProduct)
		products.GET("", handlers.Product.ListProducts)
		products.POST("/images", handlers.Product.UploadImage)
		products.GET("/:id", handlers.Product.GetProduct)
		products.PUT("/:id", handlers.Product.UpdateProduct)
	}

	// Checkout
	router.POST("/v1/cart/quote", handlers.Order.QuoteCart)
	orders := router.Group("/v1/orders")
	{
		orders.POST("", handlers.Order.PlaceOrder)
		orders.GET("", handlers.Order.ListOrders)
		orders.PUT("/:id/status", handlers.Order.UpdateOrderStatus)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	{
		admin.GET("/sellers", handlers.Admin.ListSellers)
		admin.POST("/sellers/:id/toggle", handlers.Admin.ToggleSeller)
		admin.POST("/shops/:id/approve", handlers.Admin.ApproveShop)
		admin.GET("/stats", handlers.Admin.GetStats)
		admin.GET("/notifications", handlers.Admin.ListNotifications)
		admin.GET("/stream", handlers.SSE.Stream)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
