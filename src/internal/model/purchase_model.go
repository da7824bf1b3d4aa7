package model

// Step responses of the purchase flow, rendered by the chat delivery layer.

type CatalogResponse struct {
	Products []ProductResponse `json:"products"`
}

type AmountPromptResponse struct {
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
}

type ConfirmPromptResponse struct {
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Weight      float64 `json:"weight"`
	Total       float64 `json:"total"`
	City        string  `json:"city"`
}

type PurchaseResultResponse struct {
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
}
