package http

import (
	"os"
	"strconv"
	"time"

	"webnovel/internal/cache"
	"webnovel/internal/config"
	"webnovel/internal/http/handlers"
	"webnovel/internal/http/middleware"
	"webnovel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires handlers and middleware onto the engine.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, invalidator *cache.Invalidator, paymentSvc *service.PaymentService, version string) {
	h := handlers.NewHandler(db, invalidator, paymentSvc, cfg.ChapterCacheTTL)
	healthHandler := handlers.NewHealthHandler(db, invalidator, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	purchaseRL := middleware.UserRateLimit("purchase", cfg.PurchaseRateLimit, time.Duration(cfg.PurchaseRateWindow)*time.Second)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Auth
	authRL := middleware.RedisRateLimit(authRateLimit, authRateWindow)
	v1.POST("/auth/register", authRL, h.Register)
	v1.POST("/auth/login", authRL, h.Login)

	// Reading path (public; auth is opportunistic for entitlement checks)
	v1.GET("/novels/:slug", h.GetNovel)
	v1.GET("/novels/:slug/chapters/:chapterSlug", h.GetChapter)

	// Chapter purchases
	v1.POST("/chapters/:id/purchase", middleware.JWT(), purchaseRL, h.PurchaseChapter)
	v1.GET("/me/purchases", middleware.JWT(), h.MyPurchases)

	// Wallet
	v1.GET("/wallet", middleware.JWT(), h.Wallet)
	v1.GET("/wallet/transactions", middleware.JWT(), h.WalletTransactions)

	// Coin top-up
	v1.GET("/coins/packages", h.CoinPackagesList)
	v1.POST("/coins/order", middleware.JWT(), h.CreateCoinOrder)
	v1.POST("/coins/capture", middleware.JWT(), purchaseRL, h.CaptureCoinOrder)
	v1.GET("/me/payments", middleware.JWT(), h.MyPayments)

	// Admin
	v1.POST("/admin/users/:id/balance", middleware.JWT(), h.AdminAdjustBalance)
}
