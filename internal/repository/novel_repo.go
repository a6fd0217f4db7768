package repository

import (
	"context"

	"webnovel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NovelRepository struct {
	db *pgxpool.Pool
}

func NewNovelRepository(db *pgxpool.Pool) *NovelRepository {
	return &NovelRepository{db: db}
}

// GetBySlug retrieves a novel by its slug. Returns nil when absent.
func (r *NovelRepository) GetBySlug(ctx context.Context, slug string) (*domain.Novel, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, slug, title, author, description, created_at
		 FROM novels
		 WHERE slug = $1`,
		slug,
	)

	var n domain.Novel
	if err := row.Scan(&n.ID, &n.Slug, &n.Title, &n.Author, &n.Description, &n.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// ListChapters returns chapter metadata for a novel, without content.
func (r *NovelRepository) ListChapters(ctx context.Context, novelID int64) ([]*domain.Chapter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, novel_id, slug, number, title, is_locked, price_coins, created_at
		 FROM chapters
		 WHERE novel_id = $1
		 ORDER BY number ASC`,
		novelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Chapter
	for rows.Next() {
		var c domain.Chapter
		if err := rows.Scan(&c.ID, &c.NovelID, &c.Slug, &c.Number, &c.Title, &c.IsLocked, &c.PriceCoins, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}
