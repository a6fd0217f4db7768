package repository

import (
	"context"

	"webnovel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchaseRepository struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Exists checks whether an entitlement record exists for the pair.
func (r *PurchaseRepository) Exists(ctx context.Context, userID, chapterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chapter_purchases WHERE user_id = $1 AND chapter_id = $2)`,
		userID, chapterID,
	).Scan(&exists)
	return exists, err
}

// CreateWithTx inserts the entitlement record inside an existing transaction.
// A unique violation on (user_id, chapter_id) is returned to the caller,
// which treats it as "already purchased".
func (r *PurchaseRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, p *domain.ChapterPurchase) error {
	return tx.QueryRow(ctx,
		`INSERT INTO chapter_purchases (user_id, chapter_id, novel_id, coins_spent)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.UserID, p.ChapterID, p.NovelID, p.CoinsSpent,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByUserID returns a user's purchases, newest first.
func (r *PurchaseRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.ChapterPurchase, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, chapter_id, novel_id, coins_spent, created_at
		 FROM chapter_purchases
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ChapterPurchase
	for rows.Next() {
		var p domain.ChapterPurchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.ChapterID, &p.NovelID, &p.CoinsSpent, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}
