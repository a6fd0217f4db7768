package domain

import "time"

// DefaultChapterPrice is applied when a locked chapter has no explicit price.
const DefaultChapterPrice int64 = 50

type Novel struct {
	ID          int64     `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Author      string    `db:"author" json:"author"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Chapter belongs to exactly one novel. Locked chapters serve full content
// only to users holding an entitlement for them.
type Chapter struct {
	ID         int64     `db:"id" json:"id"`
	NovelID    int64     `db:"novel_id" json:"novel_id"`
	Slug       string    `db:"slug" json:"slug"`
	Number     int       `db:"number" json:"number"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content,omitempty"`
	IsLocked   bool      `db:"is_locked" json:"is_locked"`
	PriceCoins int64     `db:"price_coins" json:"price_coins"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Price returns the effective coin price of the chapter.
func (c *Chapter) Price() int64 {
	if c.PriceCoins > 0 {
		return c.PriceCoins
	}
	return DefaultChapterPrice
}
