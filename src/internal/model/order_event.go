package model

type OrderCreatedEvent struct {
	OrderID     string  `json:"orderId"`
	UserID      string  `json:"userId"`
	ReferrerID  string  `json:"referrerId,omitempty"`
	ProductName string  `json:"productName"`
	Weight      float64 `json:"weight"`
	Total       float64 `json:"total"`
	City        string  `json:"city"`
}

func (e *OrderCreatedEvent) GetId() string {
	return e.OrderID
}

type OrderPaidEvent struct {
	OrderID    string  `json:"orderId"`
	Commission float64 `json:"commission,omitempty"`
}

func (e *OrderPaidEvent) GetId() string {
	return e.OrderID
}

type OrderCancelledEvent struct {
	OrderID string `json:"orderId"`
}

func (e *OrderCancelledEvent) GetId() string {
	return e.OrderID
}
