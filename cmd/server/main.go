package main

import (
	"log"
	"time"

	"delivery_manager/internal/config"
	"delivery_manager/internal/database"
	"delivery_manager/internal/handlers"
	"delivery_manager/internal/metrics"
	"delivery_manager/internal/redis"
	"delivery_manager/internal/repository"
	"delivery_manager/internal/services"
	"delivery_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize WhatsApp client
	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath, cfg.MaxRetries)

	// Register Prometheus metrics
	metrics.Register()

	// Initialize repositories
	deliveryRepo := repository.NewDeliveryRepository(db)
	tariffRepo := repository.NewTariffRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	// Agency calendar timezone for period boundaries
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: invalid AGENCY_TIMEZONE %q, falling back to local time", cfg.Timezone)
		location = time.Local
	}

	userService := services.NewUserService(userRepo)
	deliveryService := services.NewDeliveryService(deliveryRepo, auditRepo, redisClient)
	reportService := services.NewReportService(deliveryRepo, tariffRepo, redisClient, time.Duration(cfg.StatsCacheTTL)*time.Second, location)
	notifyService := services.NewNotifyService(whatsappClient, groupRepo, reportService)

	// Initialize handlers
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	reportHandler := handlers.NewReportHandler(reportService, notifyService)
	authHandler := handlers.NewAuthHandler(userService)

	// Setup routes
	router := gin.Default()

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)

		api.GET("/reports/stats", reportHandler.GetStats)
		api.GET("/reports/daily", reportHandler.GetDailyStats)
		api.POST("/reports/groups/:group_id/send", reportHandler.SendGroupReport)

		api.GET("/deliveries", deliveryHandler.List)
		api.POST("/deliveries", deliveryHandler.Create)
		api.GET("/deliveries/:id", deliveryHandler.Get)
		api.GET("/deliveries/:id/history", deliveryHandler.History)
		api.PUT("/deliveries/:id/status", deliveryHandler.UpdateStatus)
		api.PUT("/deliveries/:id/payment", deliveryHandler.UpdatePayment)
		api.PUT("/deliveries/:id/fee", deliveryHandler.UpdateFee)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
