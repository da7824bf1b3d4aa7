package model

import "time"

type WithdrawalRequest struct {
	UserID string  `json:"userId" validate:"required,max=64"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type WithdrawalResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}
