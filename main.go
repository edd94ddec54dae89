package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yashrajoria/storefront-service/cache"
	"github.com/yashrajoria/storefront-service/controllers"
	"github.com/yashrajoria/storefront-service/database"
	"github.com/yashrajoria/storefront-service/events"
	"github.com/yashrajoria/storefront-service/gateway"
	"github.com/yashrajoria/storefront-service/middleware"
	"github.com/yashrajoria/storefront-service/repository"
	"github.com/yashrajoria/storefront-service/routes"
	"github.com/yashrajoria/storefront-service/sender"
	"github.com/yashrajoria/storefront-service/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	if err := database.ConnectWithConfig(cfg.MongoURI, cfg.MongoDBName); err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()
	logger.Info("Connected to MongoDB", zap.String("db", cfg.MongoDBName))

	// --- Optional collaborators ---
	var productCache *cache.ProductCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis init failed, product cache disabled", zap.Error(err))
		} else {
			productCache = cache.NewProductCache(redisClient, 5*time.Minute)
			logger.Info("Product cache enabled")
		}
	}

	var emailSender sender.EmailSender
	if smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail); err != nil {
		logger.Warn("SMTP init failed, email notifications disabled", zap.Error(err))
	} else {
		emailSender = smtpSender
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Order event publishing enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	// --- Service wiring ---
	productRepo := repository.NewMongoProductRepository(database.DB)
	orderRepo := repository.NewMongoOrderRepository(database.DB)
	rzp := gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	catalogService := services.NewCatalogService(productRepo, productCache, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, rzp, emailSender, publisher, cfg.Currency, logger)
	paymentService := services.NewPaymentService(orderRepo, cfg.RazorpayKeySecret, emailSender, publisher, cfg.Currency, logger)

	productController := controllers.NewProductController(catalogService)
	orderController := controllers.NewOrderController(orderService)
	paymentController := controllers.NewPaymentController(paymentService)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, productController, orderController, paymentController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		logger.Info("Storefront Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Storefront Service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Storefront Service stopped gracefully")
}
