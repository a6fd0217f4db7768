package domain

import "time"

// Coin transaction types. Adjustment entries are written by admin balance
// edits so that the per-user ledger sum always reconciles with the balance.
const (
	TxTypeCredit     = "credit"
	TxTypeSpend      = "spend"
	TxTypeAdjustment = "adjustment"
)

// CoinTransaction is a single append-only ledger entry. Amount is signed:
// positive for credits, negative for spends.
type CoinTransaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Reference string                 `db:"reference" json:"reference,omitempty"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
