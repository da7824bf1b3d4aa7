package model

const (
	PurchaseStateChoosingProduct = "choosing_product"
	PurchaseStateChoosingAmount  = "choosing_amount"
	PurchaseStateConfirming      = "confirming"

	// chat-only states outside the purchase flow proper
	ChatStateEnteringCity   = "entering_city"
	ChatStateSupportMessage = "support_message"
)

// PurchaseSession is the per-user transient context of the purchase flow.
// It lives in redis under a TTL and is never persisted past the session.
type PurchaseSession struct {
	State       string  `json:"state"`
	ProductID   int64   `json:"productId,omitempty"`
	ProductName string  `json:"productName,omitempty"`
	UnitPrice   float64 `json:"unitPrice,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Total       float64 `json:"total,omitempty"`
}
