package service

import (
	"context"
	"errors"
	"strconv"

	"webnovel/internal/domain"
	"webnovel/internal/payments"
	"webnovel/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPaymentNotCompleted     = errors.New("payment not completed")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
)

// Processor is the black-box payment collaborator. The ledger only consumes
// the capture result's status and captured amount.
type Processor interface {
	CreateOrder(ctx context.Context, amountUSD float64, metadata map[string]string) (*payments.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*payments.CaptureResult, error)
}

// PaymentService turns captured external payments into coin credits. It is
// the single credit call site shared by coin-package and subscription
// purchases.
type PaymentService struct {
	db          *pgxpool.Pool
	paymentRepo *repository.PaymentRepository
	balance     *BalanceService
	processor   Processor
}

// NewPaymentService creates a payment service with an injected processor.
func NewPaymentService(db *pgxpool.Pool, processor Processor) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: repository.NewPaymentRepository(db),
		balance:     NewBalanceService(db),
		processor:   processor,
	}
}

// CreateOrder opens a processor order for a coin package.
func (s *PaymentService) CreateOrder(ctx context.Context, userID int64, amountUSD float64) (*payments.Order, error) {
	if amountUSD <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.processor.CreateOrder(ctx, amountUSD, map[string]string{
		"user_id": strconv.FormatInt(userID, 10),
	})
}

// CaptureAndCredit captures an order and credits the converted coins.
//
// Payment record, balance credit and the credit ledger entry are written in
// one transaction. The unique external_id constraint makes a replayed capture
// fail with ErrPaymentAlreadyProcessed instead of double-crediting.
func (s *PaymentService) CaptureAndCredit(ctx context.Context, userID int64, orderID string) (*domain.Payment, error) {
	result, err := s.processor.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if result.Status != payments.StatusCompleted {
		return nil, ErrPaymentNotCompleted
	}

	coins := CoinsForUSD(result.CapturedAmount)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	payment := &domain.Payment{
		UserID:        userID,
		OrderID:       orderID,
		ExternalID:    result.ExternalID,
		AmountUSD:     result.CapturedAmount,
		CoinsCredited: coins,
		Status:        domain.PaymentStatusCompleted,
	}
	if err = s.paymentRepo.CreateWithTx(ctx, tx, payment); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrPaymentAlreadyProcessed
		}
		return nil, err
	}

	if coins > 0 {
		meta := map[string]interface{}{
			"order_id":    orderID,
			"external_id": result.ExternalID,
			"amount_usd":  result.CapturedAmount,
		}
		if _, err = s.balance.CreditWithTx(ctx, tx, userID, coins, strconv.FormatInt(payment.ID, 10), meta); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	coinsCreditedTotal.Add(float64(coins))
	return payment, nil
}

// GetPayments returns a user's payment history.
func (s *PaymentService) GetPayments(ctx context.Context, userID int64, limit int) ([]*domain.Payment, error) {
	return s.paymentRepo.GetByUserID(ctx, userID, limit)
}
