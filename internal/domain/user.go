package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CoinBalance  int64     `db:"coin_balance" json:"coin_balance"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
