package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Baaaki/content-square/internal/config"
	"github.com/Baaaki/content-square/internal/database"
	"github.com/Baaaki/content-square/internal/middleware"
	"github.com/Baaaki/content-square/internal/router"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(logger.Options{Development: !cfg.IsProduction(), Level: cfg.LogLevel}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if err := database.SeedRoles(db); err != nil {
		log.Fatal("Failed to seed roles", zap.Error(err))
	}

	// Redis is optional, the limiter falls back to in-process buckets
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, using local rate limiting", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	if dir := filepath.Dir(cfg.RequestLogPath); cfg.RequestLogPath != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal("Failed to create log directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	requestLog := logger.NewRequestLogger(cfg.RequestLogPath)
	defer func() { _ = requestLog.Sync() }()

	engine := router.New(router.Options{
		DB:                 db,
		Redis:              redisClient,
		Tokens:             security.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry),
		Logger:             log,
		RequestLogger:      requestLog,
		IsProduction:       cfg.IsProduction(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		},
		RequestTimeout:        cfg.RequestTimeout,
		MaxBodyBytes:          cfg.MaxBodyBytes,
		MaxConcurrentRequests: cfg.MaxConcurrentRequests,
	})

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}
