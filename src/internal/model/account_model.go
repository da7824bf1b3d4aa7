package model

type StartRequest struct {
	UserID       string `json:"userId" validate:"required,max=64"`
	ReferralCode string `json:"referralCode,omitempty" validate:"max=16"`
}

type SetCityRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
	City   string `json:"city" validate:"required,max=255"`
}

type AdjustBalanceRequest struct {
	UserID string  `json:"userId" validate:"required,max=64"`
	Amount float64 `json:"amount" validate:"required"`
}

type ProfileResponse struct {
	UserID       string  `json:"userId"`
	City         string  `json:"city,omitempty"`
	Balance      float64 `json:"balance"`
	ReferralCode string  `json:"referralCode"`
}

type TeamMemberResponse struct {
	UserID      string  `json:"userId"`
	TotalEarned float64 `json:"totalEarned"`
	Withdrawn   float64 `json:"withdrawn"`
	Profit      float64 `json:"profit"`
}
