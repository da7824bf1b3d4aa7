package converter

import (
	"shop-service/src/internal/entity"
	"shop-service/src/internal/model"
)

func OrderToResponse(order *entity.Order) *model.OrderResponse {
	return &model.OrderResponse{
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		ReferrerID:  order.ReferrerID.String,
		ProductName: order.ProductName,
		UnitPrice:   order.UnitPrice,
		Weight:      order.Weight,
		Total:       order.Total,
		City:        order.City,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		ProcessedAt: order.ProcessedAt,
	}
}

func OrdersToResponse(orders []entity.Order) []model.OrderResponse {
	responses := make([]model.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *OrderToResponse(&orders[i]))
	}
	return responses
}

func OrderToCreatedEvent(order *entity.Order) *model.OrderCreatedEvent {
	return &model.OrderCreatedEvent{
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		ReferrerID:  order.ReferrerID.String,
		ProductName: order.ProductName,
		Weight:      order.Weight,
		Total:       order.Total,
		City:        order.City,
	}
}
