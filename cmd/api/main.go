// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/config"
	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/infrastructure/database/redis"
	"github.com/your-org/furniture-store/internal/interfaces/http"
	"github.com/your-org/furniture-store/internal/pkg/logger"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	recorder := metrics.New("furniture_store")

	// Open the JSON collections
	store, err := datastore.Open(cfg, appLogger, recorder)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open data store")
	}

	appLogger.WithFields(logrus.Fields{
		"data_dir": cfg.Storage.DataDir,
		"products": len(store.AllProducts()),
	}).Info("Data store ready")

	// Redis is optional
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		conn, err := redis.NewConnection(cfg)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer conn.Close()

		if err := conn.Health(); err != nil {
			appLogger.WithError(err).Fatal("Redis health check failed")
		}
		redisClient = conn.GetClient()
	} else {
		log.Println("ℹ️  Redis disabled: token revocation kept in memory, rate limiting off")
	}

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, store, redisClient, appLogger, recorder)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}
