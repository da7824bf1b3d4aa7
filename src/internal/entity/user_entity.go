package entity

import (
	"database/sql"
	"time"
)

type User struct {
	UserID       string         `json:"user_id" db:"user_id"`
	City         sql.NullString `json:"city" db:"city"`
	ReferrerID   sql.NullString `json:"referrer_id" db:"referrer_id"`
	ReferralCode string         `json:"referral_code" db:"referral_code"`
	Balance      float64        `json:"balance" db:"balance"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
