package domain

import "time"

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
)

// Payment records one captured external payment. ExternalID is unique, so a
// replayed capture webhook cannot credit coins twice.
type Payment struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	OrderID       string    `db:"order_id" json:"order_id"`
	ExternalID    string    `db:"external_id" json:"external_id"`
	AmountUSD     float64   `db:"amount_usd" json:"amount_usd"`
	CoinsCredited int64     `db:"coins_credited" json:"coins_credited"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CoinPackage is a purchasable coin bundle shown on the top-up page.
type CoinPackage struct {
	PriceUSD float64 `json:"price_usd"`
	Coins    int64   `json:"coins"`
}
