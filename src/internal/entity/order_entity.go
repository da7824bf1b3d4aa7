package entity

import (
	"database/sql"
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Order carries a frozen snapshot of the product name, unit price and the
// buyer's referrer as they were at creation time. Total is computed once and
// never recalculated from the catalog.
type Order struct {
	OrderID     string         `json:"order_id" db:"order_id"`
	UserID      string         `json:"user_id" db:"user_id"`
	ReferrerID  sql.NullString `json:"referrer_id" db:"referrer_id"`
	ProductName string         `json:"product_name" db:"product_name"`
	UnitPrice   float64        `json:"unit_price" db:"unit_price"`
	Weight      float64        `json:"weight" db:"weight"`
	Total       float64        `json:"total" db:"total"`
	City        string         `json:"city" db:"city"`
	Status      string         `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty" db:"processed_at"`
}
