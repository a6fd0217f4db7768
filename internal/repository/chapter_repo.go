package repository

import (
	"context"

	"webnovel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChapterRepository struct {
	db *pgxpool.Pool
}

func NewChapterRepository(db *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// ChapterWithNovel carries the owning novel's slug alongside the chapter,
// needed for building cache keys.
type ChapterWithNovel struct {
	domain.Chapter
	NovelSlug string `json:"novel_slug"`
}

// GetByID retrieves a chapter with its novel slug. Returns nil when absent.
func (r *ChapterRepository) GetByID(ctx context.Context, id int64) (*ChapterWithNovel, error) {
	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.novel_id, c.slug, c.number, c.title, c.content,
		        c.is_locked, c.price_coins, c.created_at, n.slug
		 FROM chapters c
		 JOIN novels n ON n.id = c.novel_id
		 WHERE c.id = $1`,
		id,
	)

	return scanChapterWithNovel(row)
}

// GetBySlugs retrieves a chapter by novel slug and chapter slug.
func (r *ChapterRepository) GetBySlugs(ctx context.Context, novelSlug, chapterSlug string) (*ChapterWithNovel, error) {
	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.novel_id, c.slug, c.number, c.title, c.content,
		        c.is_locked, c.price_coins, c.created_at, n.slug
		 FROM chapters c
		 JOIN novels n ON n.id = c.novel_id
		 WHERE n.slug = $1 AND c.slug = $2`,
		novelSlug, chapterSlug,
	)

	return scanChapterWithNovel(row)
}

func scanChapterWithNovel(row pgx.Row) (*ChapterWithNovel, error) {
	var c ChapterWithNovel
	if err := row.Scan(
		&c.ID, &c.NovelID, &c.Slug, &c.Number, &c.Title, &c.Content,
		&c.IsLocked, &c.PriceCoins, &c.CreatedAt, &c.NovelSlug,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
