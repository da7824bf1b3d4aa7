package model

type WithdrawalRequestedEvent struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
}

func (e *WithdrawalRequestedEvent) GetId() string {
	return e.ID
}

type WithdrawalProcessedEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (e *WithdrawalProcessedEvent) GetId() string {
	return e.ID
}
