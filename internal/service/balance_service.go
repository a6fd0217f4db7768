package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"webnovel/internal/domain"
	"webnovel/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// InsufficientBalanceError carries required vs. available amounts so the
// purchase endpoint can report them. errors.Is matches it against
// ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Required  int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need %d coins, have %d", e.Required, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// BalanceService owns coin balance mutation. Balances change only through
// credit, debit and adjustment, each writing a ledger entry in the same
// database transaction as the balance update.
type BalanceService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(db *pgxpool.Pool) *BalanceService {
	return &BalanceService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// GetBalance returns user's current coin balance
func (s *BalanceService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT coin_balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Credit adds coins to a user's balance with a ledger entry, atomically.
func (s *BalanceService) Credit(ctx context.Context, userID, amount int64, reference string, meta map[string]interface{}) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err = s.CreditWithTx(ctx, tx, userID, amount, reference, meta)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// CreditWithTx adds coins within an existing transaction and appends the
// credit ledger entry to the same transaction.
func (s *BalanceService) CreditWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64, reference string, meta map[string]interface{}) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET coin_balance = coin_balance + $1 WHERE id = $2 RETURNING coin_balance`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	entry := &domain.CoinTransaction{
		UserID:    userID,
		Type:      domain.TxTypeCredit,
		Amount:    amount,
		Reference: reference,
		Meta:      meta,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	return newBalance, nil
}

// DebitWithTx deducts coins within an existing transaction. The conditional
// update never lets the balance go negative; it either applies in full or
// not at all.
func (s *BalanceService) DebitWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (newBalance int64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET coin_balance = coin_balance - $1 WHERE id = $2 AND coin_balance >= $1 RETURNING coin_balance`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var balance int64
			if scanErr := tx.QueryRow(ctx, `SELECT coin_balance FROM users WHERE id = $1`, userID).Scan(&balance); scanErr != nil {
				return 0, ErrUserNotFound
			}
			return 0, &InsufficientBalanceError{Required: amount, Available: balance}
		}
		return 0, err
	}

	return newBalance, nil
}

// AdjustBalance applies an administrative signed delta. It writes a synthetic
// adjustment ledger entry in the same transaction, so the per-user ledger sum
// stays equal to the live balance even for admin edits.
func (s *BalanceService) AdjustBalance(ctx context.Context, userID, delta int64, reason string, adminID int64) (newBalance int64, err error) {
	if delta == 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`UPDATE users SET coin_balance = coin_balance + $1 WHERE id = $2 AND coin_balance + $1 >= 0 RETURNING coin_balance`,
		delta, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var balance int64
			if scanErr := tx.QueryRow(ctx, `SELECT coin_balance FROM users WHERE id = $1`, userID).Scan(&balance); scanErr != nil {
				return 0, ErrUserNotFound
			}
			return 0, &InsufficientBalanceError{Required: -delta, Available: balance}
		}
		return 0, err
	}

	entry := &domain.CoinTransaction{
		UserID:    userID,
		Type:      domain.TxTypeAdjustment,
		Amount:    delta,
		Reference: "admin:" + strconv.FormatInt(adminID, 10),
		Meta:      map[string]interface{}{"reason": reason, "admin_id": adminID},
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// GetTransactionHistory returns user's ledger history
func (s *BalanceService) GetTransactionHistory(ctx context.Context, userID int64, limit int) ([]*domain.CoinTransaction, error) {
	return s.transactionRepo.GetByUserID(ctx, userID, limit)
}

// Reconcile compares the live balance against the ledger sum. Used by tests
// and operational checks; a mismatch means an out-of-band balance edit.
func (s *BalanceService) Reconcile(ctx context.Context, userID int64) (balance, ledgerSum int64, err error) {
	balance, err = s.GetBalance(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	ledgerSum, err = s.transactionRepo.SumByUserID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return balance, ledgerSum, nil
}
