package main

import (
	"fmt"
	"os"

	"github.com/yungbote/pantrypilot-backend/internal/clients/redis"
	"github.com/yungbote/pantrypilot-backend/internal/db"
	"github.com/yungbote/pantrypilot-backend/internal/handlers"
	"github.com/yungbote/pantrypilot-backend/internal/middleware"
	"github.com/yungbote/pantrypilot-backend/internal/pkg/logger"
	"github.com/yungbote/pantrypilot-backend/internal/repos"
	"github.com/yungbote/pantrypilot-backend/internal/server"
	"github.com/yungbote/pantrypilot-backend/internal/services"
	"github.com/yungbote/pantrypilot-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Analytics cache (optional: the DB row stays authoritative)
	analyticsCache, err := redis.NewAnalyticsCache(log)
	if err != nil {
		log.Warn("Analytics cache unavailable, continuing without it", "error", err)
		analyticsCache = nil
	} else {
		defer analyticsCache.Close()
	}

	// Repos
	log.Info("Setting up repos...")
	purchaseRecordRepo := repos.NewPurchaseRecordRepo(thePG, log)
	productAnalyticsRepo := repos.NewProductAnalyticsRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	analyticsService := services.NewPurchaseAnalyticsService(thePG, log, purchaseRecordRepo, productAnalyticsRepo, analyticsCache)
	predictionService := services.NewPurchasePredictionService(thePG, log, productAnalyticsRepo, analyticsService)
	purchaseService := services.NewPurchaseService(thePG, log, purchaseRecordRepo, analyticsService)

	// Handlers
	log.Info("Setting up handlers...")
	purchaseHandler := handlers.NewPurchaseHandler(log, purchaseService)
	predictionHandler := handlers.NewPredictionHandler(log, predictionService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:    authMiddleware,
		PurchaseHandler:   purchaseHandler,
		PredictionHandler: predictionHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
