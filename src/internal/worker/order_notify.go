package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"shop-service/src/internal/entity"
	"shop-service/src/internal/repository"
	"shop-service/src/pkg/log"
)

// OperatorNotifier delivers a new-order summary to the operator channel.
// Implemented by the telegram delivery layer.
type OperatorNotifier interface {
	NotifyNewOrder(ctx context.Context, order *entity.Order) error
}

type OrderNotifyHandler struct {
	Log             log.Log
	OrderRepository *repository.OrderRepository
	Notifier        OperatorNotifier
}

func NewOrderNotifyHandler(logger log.Log, orderRepository *repository.OrderRepository, notifier OperatorNotifier) *OrderNotifyHandler {
	return &OrderNotifyHandler{
		Log:             logger,
		OrderRepository: orderRepository,
		Notifier:        notifier,
	}
}

// HandleOrderNotify is retried by asynq on error; delivery stays best effort
// because an order whose record disappeared is dropped, not retried forever.
func (h *OrderNotifyHandler) HandleOrderNotify(ctx context.Context, task *asynq.Task) error {
	var payload OrderNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		h.Log.Error("order-notify", fmt.Sprintf("bad payload: %v", err), "HandleOrderNotify", "")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	order, err := h.OrderRepository.FindByID(ctx, payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		h.Log.Warn("order-notify", "order vanished before notification", "HandleOrderNotify", payload.OrderID)
		return nil
	}

	if err := h.Notifier.NotifyNewOrder(ctx, order); err != nil {
		h.Log.Error("order-notify", fmt.Sprintf("notify operator: %v", err), "HandleOrderNotify", payload.OrderID)
		return err
	}
	return nil
}
