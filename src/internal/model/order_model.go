package model

import "time"

// CreateOrderRequest is the snapshot assembled by the purchase flow at
// confirmation time. ReferrerID is the buyer's referrer frozen into the
// order; Total is already rounded.
type CreateOrderRequest struct {
	UserID      string  `json:"userId" validate:"required,max=64"`
	ReferrerID  string  `json:"referrerId,omitempty" validate:"max=64"`
	ProductName string  `json:"productName" validate:"required,max=255"`
	UnitPrice   float64 `json:"unitPrice" validate:"required,gt=0"`
	Weight      float64 `json:"weight" validate:"required,gte=0.1,lte=5"`
	Total       float64 `json:"total" validate:"required,gt=0"`
	City        string  `json:"city" validate:"required,max=255"`
}

type OrderResponse struct {
	OrderID     string     `json:"orderId"`
	UserID      string     `json:"userId"`
	ReferrerID  string     `json:"referrerId,omitempty"`
	ProductName string     `json:"productName"`
	UnitPrice   float64    `json:"unitPrice"`
	Weight      float64    `json:"weight"`
	Total       float64    `json:"total"`
	City        string     `json:"city"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

type TransitionResponse struct {
	OrderID    string  `json:"orderId"`
	Status     string  `json:"status"`
	Commission float64 `json:"commission,omitempty"`
}
