package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"

	"moodmap-backend/internal/config"
	"moodmap-backend/internal/database"
	"moodmap-backend/internal/logger"
	"moodmap-backend/internal/telemetry"
	"moodmap-backend/middleware"
	"moodmap-backend/routes"
	"moodmap-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Telemetry is opt-in
	var metrics *telemetry.Metrics
	if cfg.OTELEnabled {
		shutdownTracer, err := telemetry.InitTracer("moodmap-backend", cfg.OTELEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracer:", err)
		}
		defer shutdownTracer()

		metrics, err = telemetry.InitMetrics()
		if err != nil {
			log.Fatal("Failed to initialize metrics:", err)
		}
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	if cfg.OTELEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	// Rate limiting: Redis-backed when configured, in-process otherwise
	if cfg.RedisURL != "" {
		rdb, err := config.NewRedisClient(cfg)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer rdb.Close()
		router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	} else {
		router.Use(middleware.LocalRateLimitMiddleware(cfg))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	store := database.NewMongoPostStore(mongoClient, cfg.DBName)
	routes.SetupPostRoutes(router, cfg, store, metrics)

	// In-process sweep schedule; an external cron hitting the cleanup
	// route covers multi-instance deployments.
	scheduler := gocron.NewScheduler(time.UTC)
	reaper := services.NewReaper(store)
	if err := reaper.Schedule(scheduler, time.Duration(cfg.SweepIntervalMins)*time.Minute); err != nil {
		log.Fatal("Failed to schedule expiry sweep:", err)
	}
	scheduler.StartAsync()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
