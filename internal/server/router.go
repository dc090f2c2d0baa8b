package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pantrypilot-backend/internal/handlers"
	"github.com/yungbote/pantrypilot-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	PurchaseHandler   *handlers.PurchaseHandler
	PredictionHandler *handlers.PredictionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/purchases", cfg.PurchaseHandler.RecordPurchases)
		api.GET("/purchases", cfg.PurchaseHandler.GetPurchases)

		api.GET("/predictions", cfg.PredictionHandler.GetPredictions)
		api.GET("/predictions/summary", cfg.PredictionHandler.GetShoppingSummary)
		api.GET("/predictions/item", cfg.PredictionHandler.GetItemPrediction)
	}

	return router
}
