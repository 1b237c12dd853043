package main

import (
	"log"

	"finreport/internal/app"
	"finreport/internal/config"
	"finreport/internal/handler"
	"finreport/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("configs/.env")
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up dependencies (Source -> Service -> Handler)
	svc, err := app.NewServices(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defaults := app.ReportOptions(cfg)

	// Initialize Handlers
	reportHandler := handler.NewReportHandler(svc.Source, svc.Depreciation, svc.Metrics, svc.Reports, defaults)
	chartHandler := handler.NewChartHandler(svc.Reports, defaults)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RequestID(), middleware.ReadOnly())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Register API Routes
	reportHandler.RegisterRoutes(router.Group(""))
	chartHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
