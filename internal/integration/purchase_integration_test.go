package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"webnovel/internal/cache"
	"webnovel/internal/repository"
	"webnovel/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

// createUser inserts a user with zero balance. Tests that need coins credit
// them through BalanceService so the ledger stays consistent.
func createUser(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	err := db.QueryRow(context.Background(),
		`INSERT INTO users (email, username, password_hash, role) VALUES ($1, 'it-user', 'x', 'reader') RETURNING id`,
		email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func createChapter(t *testing.T, db *pgxpool.Pool, locked bool, price int64) (chapterID int64, novelSlug, chapterSlug string) {
	t.Helper()
	ctx := context.Background()

	novelSlug = fmt.Sprintf("novel-%d", time.Now().UnixNano())
	var novelID int64
	err := db.QueryRow(ctx,
		`INSERT INTO novels (slug, title, author) VALUES ($1, 'Test Novel', 'Author') RETURNING id`,
		novelSlug,
	).Scan(&novelID)
	if err != nil {
		t.Fatalf("create novel: %v", err)
	}

	chapterSlug = "chapter-1"
	err = db.QueryRow(ctx,
		`INSERT INTO chapters (novel_id, slug, number, title, content, is_locked, price_coins)
		 VALUES ($1, $2, 1, 'Chapter One', 'full chapter text', $3, $4)
		 RETURNING id`,
		novelID, chapterSlug, locked, price,
	).Scan(&chapterID)
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return chapterID, novelSlug, chapterSlug
}

func credit(t *testing.T, balanceSvc *service.BalanceService, userID, amount int64) {
	t.Helper()
	if _, err := balanceSvc.Credit(context.Background(), userID, amount, "test-seed", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
}

func noopInvalidator() *cache.Invalidator {
	return cache.NewInvalidator("", "", 0)
}

func TestPurchaseChapter_EndToEnd(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	userID := createUser(t, db)
	otherID := createUser(t, db)
	chapterID, _, _ := createChapter(t, db, true, 50)

	credit(t, balanceSvc, userID, 60)

	result, err := purchaseSvc.PurchaseChapter(ctx, userID, chapterID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.NewBalance != 10 {
		t.Errorf("balance after purchase = %d, want 10", result.NewBalance)
	}
	if result.CoinsSpent != 50 {
		t.Errorf("coins spent = %d, want 50", result.CoinsSpent)
	}

	owned, err := purchaseSvc.HasEntitlement(ctx, userID, chapterID)
	if err != nil || !owned {
		t.Errorf("buyer entitlement = %v (err %v), want true", owned, err)
	}
	otherOwned, err := purchaseSvc.HasEntitlement(ctx, otherID, chapterID)
	if err != nil || otherOwned {
		t.Errorf("other user entitlement = %v (err %v), want false", otherOwned, err)
	}

	// ledger has the -50 spend entry and reconciles with the balance
	txs, err := balanceSvc.GetTransactionHistory(ctx, userID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var spend int64
	for _, tx := range txs {
		if tx.Type == "spend" {
			spend += tx.Amount
		}
	}
	if spend != -50 {
		t.Errorf("spend ledger sum = %d, want -50", spend)
	}

	balance, ledgerSum, err := balanceSvc.Reconcile(ctx, userID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if balance != ledgerSum {
		t.Errorf("balance %d != ledger sum %d", balance, ledgerSum)
	}
}

func TestPurchaseChapter_SecondAttemptRejected(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	userID := createUser(t, db)
	chapterID, _, _ := createChapter(t, db, true, 50)
	credit(t, balanceSvc, userID, 200)

	if _, err := purchaseSvc.PurchaseChapter(ctx, userID, chapterID); err != nil {
		t.Fatalf("first purchase: %v", err)
	}

	_, err := purchaseSvc.PurchaseChapter(ctx, userID, chapterID)
	if !errors.Is(err, service.ErrAlreadyPurchased) {
		t.Fatalf("second purchase err = %v, want ErrAlreadyPurchased", err)
	}

	balance, err := balanceSvc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 150 {
		t.Errorf("balance = %d, want 150 (debited exactly once)", balance)
	}
}

func TestPurchaseChapter_ConcurrentSingleDebit(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	userID := createUser(t, db)
	chapterID, _, _ := createChapter(t, db, true, 50)
	credit(t, balanceSvc, userID, 500)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = purchaseSvc.PurchaseChapter(ctx, userID, chapterID)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, service.ErrAlreadyPurchased):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("got %d successes and %d conflicts, want exactly 1 of each", successes, conflicts)
	}

	balance, err := balanceSvc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 450 {
		t.Errorf("balance = %d, want 450 (single debit)", balance)
	}

	var purchaseCount int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chapter_purchases WHERE user_id = $1 AND chapter_id = $2`,
		userID, chapterID,
	).Scan(&purchaseCount); err != nil {
		t.Fatalf("count purchases: %v", err)
	}
	if purchaseCount != 1 {
		t.Errorf("purchase rows = %d, want 1", purchaseCount)
	}
}

func TestPurchaseChapter_InsufficientBalance(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	userID := createUser(t, db)
	chapterID, _, _ := createChapter(t, db, true, 50)
	credit(t, balanceSvc, userID, 10)

	_, err := purchaseSvc.PurchaseChapter(ctx, userID, chapterID)
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	var ib *service.InsufficientBalanceError
	if !errors.As(err, &ib) {
		t.Fatalf("expected detailed insufficient balance error, got %T", err)
	}
	if ib.Required != 50 || ib.Available != 10 {
		t.Errorf("details = %+v, want required 50 available 10", ib)
	}

	balance, err := balanceSvc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 10 {
		t.Errorf("balance = %d, want 10 (unchanged)", balance)
	}

	owned, err := purchaseSvc.HasEntitlement(ctx, userID, chapterID)
	if err != nil || owned {
		t.Errorf("entitlement = %v (err %v), want false", owned, err)
	}

	var spendCount int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM coin_transactions WHERE user_id = $1 AND type = 'spend'`,
		userID,
	).Scan(&spendCount); err != nil {
		t.Fatalf("count spends: %v", err)
	}
	if spendCount != 0 {
		t.Errorf("spend entries = %d, want 0", spendCount)
	}
}

func TestPurchaseChapter_FreeChapterRejected(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	userID := createUser(t, db)
	chapterID, _, _ := createChapter(t, db, false, 50)
	credit(t, balanceSvc, userID, 100)

	_, err := purchaseSvc.PurchaseChapter(ctx, userID, chapterID)
	if !errors.Is(err, service.ErrChapterFree) {
		t.Fatalf("err = %v, want ErrChapterFree", err)
	}

	balance, err := balanceSvc.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 100 {
		t.Errorf("balance = %d, want 100 (nothing debited)", balance)
	}
}

func TestPurchaseChapter_NotFoundKinds(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	balanceSvc := service.NewBalanceService(db)
	purchaseSvc := service.NewPurchaseService(db, noopInvalidator())

	userID := createUser(t, db)
	credit(t, balanceSvc, userID, 100)

	if _, err := purchaseSvc.PurchaseChapter(ctx, userID, 999999999); !errors.Is(err, service.ErrChapterNotFound) {
		t.Errorf("err = %v, want ErrChapterNotFound", err)
	}

	chapterID, _, _ := createChapter(t, db, true, 50)
	if _, err := purchaseSvc.PurchaseChapter(ctx, 999999999, chapterID); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestChapterRepo_LockedStateRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	chapterID, novelSlug, chapterSlug := createChapter(t, db, true, 75)
	repo := repository.NewChapterRepository(db)

	ch, err := repo.GetBySlugs(ctx, novelSlug, chapterSlug)
	if err != nil {
		t.Fatalf("get by slugs: %v", err)
	}
	if ch == nil || ch.ID != chapterID {
		t.Fatalf("chapter = %+v, want id %d", ch, chapterID)
	}
	if !ch.IsLocked || ch.Price() != 75 {
		t.Errorf("locked=%v price=%d, want locked price 75", ch.IsLocked, ch.Price())
	}
	if ch.NovelSlug != novelSlug {
		t.Errorf("novel slug = %q, want %q", ch.NovelSlug, novelSlug)
	}
}
