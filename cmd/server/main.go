package main

import (
	"context"   // Shutdown deadline and Redis ping
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Process signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"fangemeinschaft/internal/api"      // HTTP handlers
	"fangemeinschaft/internal/auth"     // Sessions
	"fangemeinschaft/internal/config"   // Custom package for configuration
	"fangemeinschaft/internal/db"       // Database pool
	"fangemeinschaft/internal/pipeline" // Interceptor chain
	"fangemeinschaft/internal/store"    // Data access
	"fangemeinschaft/internal/utils"    // Cache backends

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup the read cache, Redis when configured
	var cache pipeline.CacheStore = utils.NewMemoryCache(nil)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cache = utils.NewRedisCache(redisClient)
		logrus.WithField("addr", cfg.RedisAddr).Info("Using Redis cache")
	}

	// Data access pipeline
	audit := store.NewAuditStore(conn)
	pipe := pipeline.Standard(pipeline.Options{
		Logger:        logrus.StandardLogger(),
		SlowThreshold: cfg.SlowQueryThreshold,
		Audit:         audit,
		Limiter:       pipeline.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, nil),
		Cache:         cache,
		CacheTTL:      cfg.CacheTTL,
	})
	st := store.New(conn, pipe, audit)
	sessions := auth.NewService(conn, cfg.JWTSecret, cfg.SessionTTL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.Deps{
		Store:        st,
		Sessions:     sessions,
		SecureCookie: cfg.CookieSecure,
		Logger:       logrus.StandardLogger(),
	})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then drain in-flight requests
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithField("error", err.Error()).Error("Server shutdown failed")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logrus.WithField("error", err.Error()).Warn("Redis close failed")
		}
	}
	if err := db.Close(conn); err != nil {
		logrus.WithField("error", err.Error()).Warn("Database close failed")
	}
	logrus.Info("Server stopped")
}
