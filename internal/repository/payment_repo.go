package repository

import (
	"context"

	"webnovel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateWithTx inserts a payment record inside an existing transaction.
// The unique constraint on external_id surfaces duplicate captures as a
// unique violation.
func (r *PaymentRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, p *domain.Payment) error {
	return tx.QueryRow(ctx,
		`INSERT INTO payments (user_id, order_id, external_id, amount_usd, coins_credited, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.UserID, p.OrderID, p.ExternalID, p.AmountUSD, p.CoinsCredited, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByExternalID retrieves a payment by the processor's id. Returns nil when absent.
func (r *PaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, order_id, external_id, amount_usd, coins_credited, status, created_at
		 FROM payments
		 WHERE external_id = $1`,
		externalID,
	)

	var p domain.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.OrderID, &p.ExternalID, &p.AmountUSD, &p.CoinsCredited, &p.Status, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns a user's payments, newest first.
func (r *PaymentRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Payment, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, order_id, external_id, amount_usd, coins_credited, status, created_at
		 FROM payments
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.OrderID, &p.ExternalID, &p.AmountUSD, &p.CoinsCredited, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}
