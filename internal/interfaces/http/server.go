// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/config"
	"github.com/your-org/furniture-store/internal/datastore"
	"github.com/your-org/furniture-store/internal/interfaces/http/middleware"
	"github.com/your-org/furniture-store/internal/interfaces/http/routes"
	"github.com/your-org/furniture-store/internal/pkg/auth"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
	"github.com/your-org/furniture-store/internal/pkg/pdf"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	store       *datastore.DataStore
	redisClient *redis.Client
	logger      logrus.FieldLogger
	metrics     *metrics.Recorder
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance with routes registered.
// redisClient may be nil; token revocation then stays in process memory
// and rate limiting is off.
func NewServer(cfg *config.Config, store *datastore.DataStore, redisClient *redis.Client, logger logrus.FieldLogger, recorder *metrics.Recorder) *Server {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg,
		gin:         gin.New(),
		store:       store,
		redisClient: redisClient,
		logger:      logger,
		metrics:     recorder,
		startedAt:   time.Now(),
	}

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			logger.WithError(err).Warn("Ignoring invalid trusted proxies")
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Request ID first so the access log can carry it
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.Metrics(s.metrics))

	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name))
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient, s.logger))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.gin.GET("/health", s.healthCheck)

	if s.config.Metrics.Enabled && s.metrics != nil {
		s.gin.GET(s.config.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	var revocations auth.RevocationStore
	if s.redisClient != nil {
		revocations = auth.NewRedisRevocationStore(s.redisClient)
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}

	api := s.gin.Group("/api")
	routes.SetupRoutes(api, &routes.Dependencies{
		Store:       s.store,
		JWT:         auth.NewJWTManager(s.config),
		Revocations: revocations,
		PDF:         pdf.NewService(s.config.App.Name),
		Logger:      s.logger,
	})

	s.gin.NoRoute(s.serveStatic())
}

// serveStatic serves the storefront pages for anything outside /api
func (s *Server) serveStatic() gin.HandlerFunc {
	dir := s.config.Server.StaticDir
	var files http.Handler
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		files = http.FileServer(http.Dir(dir))
	} else {
		s.logger.WithField("static_dir", dir).Warn("Static directory not found, storefront pages disabled")
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if files == nil || strings.HasPrefix(path, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Resource not found",
			})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"storage":     s.config.Storage.DataDir,
	}

	if s.redisClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := s.redisClient.Ping(ctx).Err(); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["error"] = "redis ping failed"
		}
	}

	c.JSON(status, body)
}
