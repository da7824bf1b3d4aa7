package messaging

import (
	"shop-service/src/internal/model"
	kafka "shop-service/src/pkg/kafka/confluent"
	"shop-service/src/pkg/log"
)

type OrderProducer struct {
	CreatedProducer   Producer[*model.OrderCreatedEvent]
	PaidProducer      Producer[*model.OrderPaidEvent]
	CancelledProducer Producer[*model.OrderCancelledEvent]
}

func NewOrderProducer(producer kafka.Producer, log log.Log) *OrderProducer {
	return &OrderProducer{
		CreatedProducer: Producer[*model.OrderCreatedEvent]{
			Producer: producer,
			Topic:    "order-created",
			Log:      log,
		},
		PaidProducer: Producer[*model.OrderPaidEvent]{
			Producer: producer,
			Topic:    "order-paid",
			Log:      log,
		},
		CancelledProducer: Producer[*model.OrderCancelledEvent]{
			Producer: producer,
			Topic:    "order-cancelled",
			Log:      log,
		},
	}
}

func (p *OrderProducer) SendCreated(event *model.OrderCreatedEvent) error {
	return p.CreatedProducer.Send(event)
}

func (p *OrderProducer) SendPaid(event *model.OrderPaidEvent) error {
	return p.PaidProducer.Send(event)
}

func (p *OrderProducer) SendCancelled(event *model.OrderCancelledEvent) error {
	return p.CancelledProducer.Send(event)
}
