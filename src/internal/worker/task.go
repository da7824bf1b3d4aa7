package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeOrderNotify = "order:notify"

type OrderNotifyPayload struct {
	OrderID string `json:"orderId"`
}

func NewOrderNotifyTask(orderID string) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderNotifyPayload{OrderID: orderID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderNotify, payload), nil
}
