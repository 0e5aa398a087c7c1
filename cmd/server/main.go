package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roozanaryal/TwitterClone-sub000/internal/config"
	"github.com/roozanaryal/TwitterClone-sub000/internal/container"
	"github.com/roozanaryal/TwitterClone-sub000/internal/database"
	"github.com/roozanaryal/TwitterClone-sub000/internal/handlers"
	"github.com/roozanaryal/TwitterClone-sub000/internal/logger"
	"github.com/roozanaryal/TwitterClone-sub000/internal/metrics"
	"github.com/roozanaryal/TwitterClone-sub000/internal/middleware"
	"github.com/roozanaryal/TwitterClone-sub000/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File, JSON: cfg.Log.JSON}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== chirpline server starting ===",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", cfg.Database.Driver),
	)

	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry)
	if err != nil {
		logger.Log.Warn("Tracing disabled", zap.Error(err))
	}

	var plugins []gorm.Plugin
	if tp != nil {
		plugins = append(plugins, telemetry.GORMTracingPlugin())
	}
	db, err := database.Open(cfg.Database, plugins...)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	c, err := container.Build(ctx, cfg, db)
	if err != nil {
		logger.Log.Fatal("Failed to build services", zap.Error(err))
	}
	c.OnCleanup(func(context.Context) error { return database.Close(db) })
	if tp != nil {
		c.OnCleanup(func(ctx context.Context) error { return telemetry.Shutdown(ctx, tp) })
	}

	metrics.Initialize()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(cfg, c, tp != nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := c.Cleanup(shutdownCtx); err != nil {
		logger.Log.Error("Cleanup finished with errors", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func newRouter(cfg *config.Config, c *container.Container, tracing bool) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CorrelationMiddleware())
	if tracing {
		r.Use(middleware.TracingMiddleware(cfg.Telemetry.ServiceName))
	}
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.RequestIDHeader, middleware.CorrelationIDHeader)
	r.Use(cors.New(corsConfig))

	h := handlers.NewHandlers(c.Engagement(), c.Timeline(), c.Inbox())
	h.SetHealthCheck("database", func(ctx context.Context) error { return database.Health(ctx, c.DB()) })

	var counter middleware.WindowCounter
	if rc := c.Redis(); rc != nil {
		counter = rc
		h.SetHealthCheck("redis", rc.Ping)
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))
	h.RegisterRoutes(api,
		middleware.AuthMiddleware(c.Resolver()),
		middleware.RateLimitMiddleware(counter, cfg.RateLimit.WritesPerMinute, time.Minute),
	)
	return r
}
