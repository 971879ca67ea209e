package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notalone/config"
	"notalone/database"
	"notalone/handlers"
	"notalone/middleware"
	"notalone/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("failed to load config: %v", err)
	}

	middleware.SetJWTSecret([]byte(cfg.JWTSecret))
	handlers.SetLogger(logger)
	handlers.SetTokenTTL(cfg.JWTTTL)
	handlers.SetPaginationLimits(cfg.DefaultLimit, cfg.MaxLimit)

	// Mongo on some hosts takes a moment to accept connections after deploy.
	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
			dbErr = err
			sugar.Warnf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		sugar.Fatalf("failed to connect to MongoDB: %v", dbErr)
	}
	defer database.Disconnect()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer indexCancel()
	if err := database.EnsureIndexes(indexCtx); err != nil {
		sugar.Fatalf("failed to create indexes: %v", err)
	}
	sugar.Info("connected to MongoDB")

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouter(cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("forced shutdown: %v", err)
	}

	sugar.Info("server stopped")
}
