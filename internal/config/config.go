package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort            string        // Application port
	DBUser             string        // Database user
	DBPassword         string        // Database password
	DBHost             string        // Database host
	DBPort             string        // Database port
	DBName             string        // Database name
	DBMaxOpenConns     int           // Upper bound of the connection pool
	JWTSecret          string        // JWT secret key
	SessionTTL         time.Duration // Lifetime of a session token
	CookieSecure       bool          // Mark the session cookie Secure
	RedisAddr          string        // Redis server address, empty keeps the cache in-process
	RedisPass          string        // Redis password
	RedisDB            int           // Redis database number
	RateLimit          int           // Mutations allowed per caller per window
	RateWindow         time.Duration // Rate limit window
	CacheTTL           time.Duration // Read-through cache lifetime
	SlowQueryThreshold time.Duration // Operations slower than this are logged as warnings
	AdminEmail         string        // Seeded admin account
	AdminPassword      string        // Seeded admin password
	IsProd             bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:            envString("APP_PORT", "8080"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBHost:             envString("DB_HOST", "db"),
		DBPort:             envString("DB_PORT", "3306"),
		DBName:             os.Getenv("DB_NAME"),
		DBMaxOpenConns:     envInt("DB_MAX_OPEN_CONNS", 5),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		SessionTTL:         envDuration("SESSION_TTL", 8*time.Hour),
		CookieSecure:       envString("COOKIE_SECURE", "true") == "true",
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPass:          os.Getenv("REDIS_PASS"),
		RedisDB:            envInt("REDIS_DB", 0),
		RateLimit:          envInt("RATE_LIMIT", 100),
		RateWindow:         envDuration("RATE_WINDOW", time.Hour),
		CacheTTL:           envDuration("CACHE_TTL", time.Minute),
		SlowQueryThreshold: envDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		IsProd:             os.Getenv("IS_PROD") == "true",
	}
}

// DSN builds the MySQL/MariaDB data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4&loc=UTC"
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
