package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"webnovel/internal/cache"
	"webnovel/internal/domain"
	"webnovel/internal/logger"
	"webnovel/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrChapterFree      = errors.New("chapter is not locked")
	ErrAlreadyPurchased = errors.New("chapter already purchased")
)

const uniqueViolation = "23505"

// PurchaseService runs the chapter unlock transaction: precondition checks,
// then balance debit + entitlement record + ledger entry as one atomic unit,
// followed by a best-effort cache invalidation outside the transaction.
type PurchaseService struct {
	db              *pgxpool.Pool
	chapterRepo     *repository.ChapterRepository
	purchaseRepo    *repository.PurchaseRepository
	transactionRepo *repository.TransactionRepository
	balance         *BalanceService
	invalidator     *cache.Invalidator
}

// NewPurchaseService creates a purchase service. The invalidator is an
// injected capability so tests can pass a disabled or fake one.
func NewPurchaseService(db *pgxpool.Pool, invalidator *cache.Invalidator) *PurchaseService {
	return &PurchaseService{
		db:              db,
		chapterRepo:     repository.NewChapterRepository(db),
		purchaseRepo:    repository.NewPurchaseRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		balance:         NewBalanceService(db),
		invalidator:     invalidator,
	}
}

// PurchaseResult is returned on a successful unlock
type PurchaseResult struct {
	ChapterID  int64 `json:"chapter_id"`
	CoinsSpent int64 `json:"coins_spent"`
	NewBalance int64 `json:"coin_balance"`
}

// PurchaseChapter unlocks a paid chapter for a user.
//
// Precondition failures are detected before any mutation. The mutation itself
// is a single database transaction; a concurrent purchase of the same pair is
// rejected at commit by the unique (user_id, chapter_id) constraint, so at
// most one debit can ever happen per pair.
func (s *PurchaseService) PurchaseChapter(ctx context.Context, userID, chapterID int64) (*PurchaseResult, error) {
	ch, err := s.chapterRepo.GetByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, s.reject(ErrChapterNotFound)
	}
	if !ch.IsLocked {
		return nil, s.reject(ErrChapterFree)
	}

	exists, err := s.purchaseRepo.Exists(ctx, userID, chapterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, s.reject(ErrAlreadyPurchased)
	}

	price := ch.Price()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the user row for the duration of debit + entitlement + ledger.
	var balance int64
	err = tx.QueryRow(ctx, `SELECT coin_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.reject(ErrUserNotFound)
		}
		return nil, err
	}

	newBalance, err := s.balance.DebitWithTx(ctx, tx, userID, price)
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			purchasesTotal.WithLabelValues("insufficient_balance").Inc()
		}
		return nil, err
	}

	purchase := &domain.ChapterPurchase{
		UserID:     userID,
		ChapterID:  chapterID,
		NovelID:    ch.NovelID,
		CoinsSpent: price,
	}
	if err = s.purchaseRepo.CreateWithTx(ctx, tx, purchase); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lost the race: another request created the entitlement first.
			// Rolling back undoes the debit.
			return nil, s.reject(ErrAlreadyPurchased)
		}
		return nil, err
	}

	entry := &domain.CoinTransaction{
		UserID:    userID,
		Type:      domain.TxTypeSpend,
		Amount:    -price,
		Reference: strconv.FormatInt(chapterID, 10),
		Meta: map[string]interface{}{
			"novel_id":     ch.NovelID,
			"chapter_slug": ch.Slug,
		},
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	purchasesTotal.WithLabelValues("success").Inc()

	// Fire-and-forget: read caches may serve stale locked state briefly, the
	// entitlement row is the source of truth. Never awaited inside the
	// transaction boundary.
	s.invalidateAsync(ch.NovelSlug, ch.Slug)

	return &PurchaseResult{
		ChapterID:  chapterID,
		CoinsSpent: price,
		NewBalance: newBalance,
	}, nil
}

// HasEntitlement reports whether the user owns the chapter.
func (s *PurchaseService) HasEntitlement(ctx context.Context, userID, chapterID int64) (bool, error) {
	return s.purchaseRepo.Exists(ctx, userID, chapterID)
}

// GetPurchases returns the user's entitlement records.
func (s *PurchaseService) GetPurchases(ctx context.Context, userID int64, limit int) ([]*domain.ChapterPurchase, error) {
	return s.purchaseRepo.GetByUserID(ctx, userID, limit)
}

func (s *PurchaseService) invalidateAsync(novelSlug, chapterSlug string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.invalidator.Invalidate(ctx, cache.NovelKey(novelSlug), cache.ChapterKey(novelSlug, chapterSlug))
		logger.Debug("invalidated chapter cache", "novel", novelSlug, "chapter", chapterSlug)
	}()
}

func (s *PurchaseService) reject(err error) error {
	switch {
	case errors.Is(err, ErrChapterNotFound):
		purchasesTotal.WithLabelValues("chapter_not_found").Inc()
	case errors.Is(err, ErrChapterFree):
		purchasesTotal.WithLabelValues("already_free").Inc()
	case errors.Is(err, ErrAlreadyPurchased):
		purchasesTotal.WithLabelValues("already_purchased").Inc()
	case errors.Is(err, ErrUserNotFound):
		purchasesTotal.WithLabelValues("user_not_found").Inc()
	}
	return err
}
