package main

import (
	"net/http"

	"policy-service/internal/audit"
	"policy-service/internal/handler"
	mid "policy-service/internal/middleware"
	"policy-service/internal/policy"
	"policy-service/pkg/config"
	"policy-service/pkg/database"
	"policy-service/pkg/jwtutil"
	"policy-service/pkg/logger"
	"policy-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting policy-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the engine: store, audit sink, resolver/governor/computers
	sink := audit.NewSink(appConfig.Engine.AuditBufferSize, log)
	defer sink.Close()
	handler.Init(policy.NewGormStore(database.GetDB()), sink, appConfig.Engine.MaxRoomsPerHotel)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Policy governance routes - auth middleware supplies the organization scope
	policyAPI := e.Group("/api/policies", mid.AuthMiddleware)
	policyAPI.GET("/:domain", handler.ResolvePolicy)
	policyAPI.PUT("/:domain", handler.SavePolicy)
	policyAPI.POST("/:domain/lock", handler.LockPolicy)
	policyAPI.POST("/:domain/unlock", handler.UnlockPolicy)

	// Tax routes
	taxAPI := e.Group("/api/tax", mid.AuthMiddleware)
	taxAPI.POST("/compute", handler.ComputeTax)
	taxAPI.GET("/rules", handler.ListTaxRules)
	taxAPI.POST("/rules", handler.CreateTaxRule)
	taxAPI.PUT("/rules/:id", handler.UpdateTaxRule)
	taxAPI.DELETE("/rules/:id", handler.DeleteTaxRule)

	// Fee computation routes
	feeAPI := e.Group("/api/fees", mid.AuthMiddleware)
	feeAPI.POST("/late-fee/preview", handler.PreviewLateFee)

	// Hostel routes
	hostelAPI := e.Group("/api/hostels", mid.AuthMiddleware)
	hostelAPI.POST("", handler.CreateHostel)
	hostelAPI.PUT("/:id/buildings", handler.UpdateHostelBuildings)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
