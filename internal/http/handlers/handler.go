package handlers

import (
	"time"

	"webnovel/internal/cache"
	"webnovel/internal/repository"
	"webnovel/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB              *pgxpool.Pool
	UserRepo        *repository.UserRepository
	NovelRepo       *repository.NovelRepository
	ChapterRepo     *repository.ChapterRepository
	Balance         *service.BalanceService
	Purchase        *service.PurchaseService
	Payments        *service.PaymentService
	Cache           *cache.Invalidator
	ChapterCacheTTL time.Duration
}

// NewHandler wires repositories and services. The cache invalidator and the
// payment service are injected so handlers never reach for globals.
func NewHandler(db *pgxpool.Pool, invalidator *cache.Invalidator, paymentSvc *service.PaymentService, cacheTTL time.Duration) *Handler {
	return &Handler{
		DB:              db,
		UserRepo:        repository.NewUserRepository(db),
		NovelRepo:       repository.NewNovelRepository(db),
		ChapterRepo:     repository.NewChapterRepository(db),
		Balance:         service.NewBalanceService(db),
		Purchase:        service.NewPurchaseService(db, invalidator),
		Payments:        paymentSvc,
		Cache:           invalidator,
		ChapterCacheTTL: cacheTTL,
	}
}

// getUserID extracts the authenticated user id from the gin context
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
