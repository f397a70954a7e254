package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dentastore/internal/config"
	"dentastore/internal/handlers"
	"dentastore/internal/middleware"
	"dentastore/internal/repositories/mongodb"
	"dentastore/internal/services"
	"dentastore/pkg/cache"
	"dentastore/pkg/database"
	"dentastore/pkg/logger"
	"dentastore/pkg/payment"
	"dentastore/pkg/storage"
	"dentastore/pkg/websocket"
	"dentastore/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	storageProvider, err := newStorageProvider(cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	paymentProvider := payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database, redisCache)
	productRepo := mongodb.NewProductRepository(db.Database, redisCache)
	categoryRepo := mongodb.NewCategoryRepository(db.Database, redisCache)
	promotionRepo := mongodb.NewPromotionRepository(db.Database, redisCache)
	promoCodeRepo := mongodb.NewPromoCodeRepository(db.Database, redisCache)
	userPromotionRepo := mongodb.NewUserPromotionRepository(db.Database)
	orderRepo := mongodb.NewOrderRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)
	chatRepo := mongodb.NewChatRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database)

	// WebSocket hub
	wsHandler := websocket.NewHandler(&websocket.Config{
		ReadBufferSize:    cfg.WebSocket.ReadBufferSize,
		WriteBufferSize:   cfg.WebSocket.WriteBufferSize,
		HandshakeTimeout:  cfg.WebSocket.HandshakeTimeout,
		PingInterval:      cfg.WebSocket.PingInterval,
		PongTimeout:       cfg.WebSocket.PongTimeout,
		MaxConnections:    cfg.WebSocket.MaxConnections,
		EnableCompression: cfg.WebSocket.EnableCompression,
		AllowedOrigins:    cfg.WebSocket.AllowedOrigins,
	})

	// Services
	emailService := services.NewEmailService(cfg.SMTP, appLogger)
	authService := services.NewAuthService(
		userRepo, redisCache, emailService,
		cfg.Security.JWTSecret, cfg.Security.JWTAccessTokenTTL, cfg.Security.JWTRefreshTokenTTL,
		cfg.Security.MaxLoginAttempts, cfg.Security.LoginLockoutTime,
		appLogger,
	)
	productService := services.NewProductService(productRepo, categoryRepo, storageProvider, appLogger)
	categoryService := services.NewCategoryService(categoryRepo, appLogger)
	promotionService := services.NewPromotionService(
		promotionRepo, promoCodeRepo, userPromotionRepo, db, appLogger,
	)
	notificationService := services.NewNotificationService(notificationRepo, wsHandler, appLogger)
	orderService := services.NewOrderService(
		orderRepo, productRepo, userRepo,
		promotionService, notificationService, emailService, paymentProvider,
		cfg.Payment.Currency, appLogger,
	)
	reviewService := services.NewReviewService(reviewRepo, productRepo, orderRepo, appLogger)
	chatService := services.NewChatService(chatRepo, userRepo, notificationService, wsHandler, appLogger)

	// Router
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RateLimitMiddleware(redisCache, cfg.Security.RateLimitPerMinute))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.Fatalf("Failed to set trusted proxies: %v", err)
		}
	}

	v1 := router.Group("/api/v1")
	routes.Setup(v1, &routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Product:      handlers.NewProductHandler(productService),
		Category:     handlers.NewCategoryHandler(categoryService),
		Promotion:    handlers.NewPromotionHandler(promotionService),
		Order:        handlers.NewOrderHandler(orderService),
		Review:       handlers.NewReviewHandler(reviewService),
		Chat:         handlers.NewChatHandler(chatService),
		Notification: handlers.NewNotificationHandler(notificationService),
		WebSocket:    wsHandler,
	}, authService)

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	// Background sweep moves ended promotions to expired status
	go expirePromotionsLoop(promotionService, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

func newStorageProvider(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	}
}

func expirePromotionsLoop(promotionService services.PromotionService, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		count, err := promotionService.ExpireOutdatedPromotions(ctx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Promotion expiry sweep failed")
			continue
		}
		if count > 0 {
			log.WithField("count", count).Info("Expired outdated promotions")
		}
	}
}
