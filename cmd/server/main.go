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
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	customerapp "github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/application/notification"
	orderapp "github.com/storefront/backend/internal/application/order"
	reviewapp "github.com/storefront/backend/internal/application/review"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis backs the idempotency store and token blacklist; fall back to
	// the in-memory implementations when it is unreachable so a single-node
	// deployment can run without it.
	var idempotencyStore shared.IdempotencyStore
	var tokenBlacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store and token blacklist", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		_ = redisClient.Close()
	} else {
		idempotencyStore = cache.NewRedisIdempotencyStoreWithClient(redisClient, "")
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer func() {
			_ = redisClient.Close()
		}()
		log.Info("Redis connected successfully")
	}
	pingCancel()

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)

	// Transaction scopes for the multi-aggregate operations
	checkoutScope := persistence.NewGormCheckoutTransactionScope(db.DB)
	orderScope := persistence.NewGormOrderTransactionScope(db.DB)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	checkoutService := checkoutapp.NewCheckoutService(checkoutScope, addressRepo, checkoutapp.Pricing{
		TaxRate:          decimal.NewFromFloat(cfg.Checkout.TaxRate),
		ShippingFee:      decimal.NewFromFloat(cfg.Checkout.ShippingFee),
		FreeShippingOver: decimal.NewFromFloat(cfg.Checkout.FreeShippingOver),
	})
	addressService := customerapp.NewAddressService(addressRepo)
	orderService := orderapp.NewOrderService(orderRepo, orderScope, idempotencyStore).
		WithReceipts(notification.NewTextReceiptRenderer(), notification.NewLoggingNotifier(log))
	reviewService := reviewapp.NewReviewService(reviewRepo, orderRepo, productRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Order placed -> confirmation with rendered receipt
	orderPlacedHandler := notification.NewOrderPlacedHandler(log, orderRepo).
		WithNotifier(notification.NewLoggingNotifier(log))
	eventBus.Subscribe(orderPlacedHandler)

	// Order status changed -> customer notification
	orderStatusHandler := notification.NewOrderStatusHandler(log)
	eventBus.Subscribe(orderStatusHandler)

	// Stock dropped below threshold -> restock alert
	lowStockHandler := notification.NewLowStockHandler(log)
	eventBus.Subscribe(lowStockHandler)

	log.Info("Event handlers registered",
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
		zap.Strings("order_status_events", orderStatusHandler.EventTypes()),
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	productService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	reviewService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	orderHandler := handler.NewOrderHandler(orderService)
	addressHandler := handler.NewAddressHandler(addressService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// Product browsing and review listing are public; everything else
	// requires a valid token.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/health",
		},
		SkipPathPrefixes: []string{
			"/api/v1/products",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Catalog domain (public browsing)
	catalogRoutes := router.NewDomainGroup("catalog", "/products")
	catalogRoutes.GET("", productHandler.ListActive)
	catalogRoutes.GET("/:id", productHandler.GetByID)
	catalogRoutes.GET("/code/:code", productHandler.GetByCode)
	catalogRoutes.GET("/:id/reviews", reviewHandler.ListByProduct)

	// Cart domain (one open cart per authenticated user)
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/lines", cartHandler.AddLine)
	cartRoutes.PUT("/lines/:lineId", cartHandler.UpdateLine)
	cartRoutes.DELETE("/lines/:lineId", cartHandler.RemoveLine)
	cartRoutes.DELETE("", cartHandler.Clear)

	// Checkout domain
	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("", checkoutHandler.PlaceOrder)
	checkoutRoutes.POST("/quote", checkoutHandler.Quote)

	// Order domain (customer-facing)
	orderRoutes := router.NewDomainGroup("order", "/orders")
	orderRoutes.GET("", orderHandler.ListMine)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.POST("/:id/receipt", orderHandler.ResendReceipt)

	// Customer addresses
	addressRoutes := router.NewDomainGroup("address", "/addresses")
	addressRoutes.POST("", addressHandler.Create)
	addressRoutes.GET("", addressHandler.List)
	addressRoutes.GET("/default", addressHandler.GetDefault)
	addressRoutes.PUT("/:id", addressHandler.Update)
	addressRoutes.PUT("/:id/default", addressHandler.SetDefault)
	addressRoutes.DELETE("/:id", addressHandler.Delete)

	// Reviews (authenticated; listing by product lives under the catalog)
	reviewRoutes := router.NewDomainGroup("review", "/reviews")
	reviewRoutes.POST("", reviewHandler.Create)
	reviewRoutes.GET("/mine", reviewHandler.ListMine)
	reviewRoutes.GET("/eligibility/:id", reviewHandler.Eligibility)
	reviewRoutes.PUT("/:id", reviewHandler.Update)
	reviewRoutes.DELETE("/:id", reviewHandler.Delete)

	// Admin routes for catalog and order management
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.GET("/products", productHandler.List)
	adminRoutes.GET("/products/low-stock", productHandler.ListLowStock)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.PUT("/products/:id/prices", productHandler.SetPrices)
	adminRoutes.PUT("/products/:id/stock", productHandler.SetStock)
	adminRoutes.PUT("/products/:id/status", productHandler.SetStatus)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.GET("/orders/:id", orderHandler.AdminGet)
	adminRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	adminRoutes.POST("/orders/:id/pay", orderHandler.MarkPaid)
	adminRoutes.POST("/orders/:id/cancel", orderHandler.AdminCancel)
	adminRoutes.DELETE("/reviews/:id", reviewHandler.Moderate)

	// Register all domain groups
	r.Register(catalogRoutes).
		Register(cartRoutes).
		Register(checkoutRoutes).
		Register(orderRoutes).
		Register(addressRoutes).
		Register(reviewRoutes).
		Register(adminRoutes)

	// Setup routes
	r.Setup()

	// Simple ping at root API level for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
