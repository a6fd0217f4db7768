package config

import (
	"os"
	"strconv"
	"time"

	"webnovel/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	// Redis (cache invalidation + rate limiting). Optional: when unset the
	// invalidator and rate limiter fail open.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Payment processor
	PaymentAPIURL string
	PaymentAPIKey string

	// Cache TTL for rendered chapter payloads
	ChapterCacheTTL time.Duration

	// Purchase rate limiting (per user)
	PurchaseRateLimit  int
	PurchaseRateWindow int
}

// Load reads configuration from the environment
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	cacheTTL := 10 * time.Minute
	if v := os.Getenv("CHAPTER_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cacheTTL = time.Duration(n) * time.Second
		}
	}

	purchaseRateLimit := 30
	if v := os.Getenv("PURCHASE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			purchaseRateLimit = n
		}
	}

	purchaseRateWindow := 60
	if v := os.Getenv("PURCHASE_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			purchaseRateWindow = n
		}
	}

	return &Config{
		AppPort:            port,
		DatabaseURL:        dbURL,
		JWTSecret:          jwtSecret,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		PaymentAPIURL:      os.Getenv("PAYMENT_API_URL"),
		PaymentAPIKey:      os.Getenv("PAYMENT_API_KEY"),
		ChapterCacheTTL:    cacheTTL,
		PurchaseRateLimit:  purchaseRateLimit,
		PurchaseRateWindow: purchaseRateWindow,
	}
}
