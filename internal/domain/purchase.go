package domain

import "time"

// ChapterPurchase is the entitlement record: durable proof that a user may
// read a specific paid chapter. At most one row exists per (user, chapter)
// pair; the unique constraint on that pair doubles as the idempotency key,
// so a retried or concurrent purchase can never debit twice.
type ChapterPurchase struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ChapterID  int64     `db:"chapter_id" json:"chapter_id"`
	NovelID    int64     `db:"novel_id" json:"novel_id"`
	CoinsSpent int64     `db:"coins_spent" json:"coins_spent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
