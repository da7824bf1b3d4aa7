package entity

import "time"

// TeamMember is a referral-eligible user. Invariant: Withdrawn never exceeds
// TotalEarned; the difference is the profit available for withdrawal.
type TeamMember struct {
	UserID      string    `json:"user_id" db:"user_id"`
	TotalEarned float64   `json:"total_earned" db:"total_earned"`
	Withdrawn   float64   `json:"withdrawn" db:"withdrawn"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (m TeamMember) Profit() float64 {
	return m.TotalEarned - m.Withdrawn
}
