package messaging

import (
	"shop-service/src/internal/model"
	kafka "shop-service/src/pkg/kafka/confluent"
	"shop-service/src/pkg/log"
)

type WithdrawalProducer struct {
	RequestedProducer Producer[*model.WithdrawalRequestedEvent]
	ProcessedProducer Producer[*model.WithdrawalProcessedEvent]
}

func NewWithdrawalProducer(producer kafka.Producer, log log.Log) *WithdrawalProducer {
	return &WithdrawalProducer{
		RequestedProducer: Producer[*model.WithdrawalRequestedEvent]{
			Producer: producer,
			Topic:    "withdrawal-requested",
			Log:      log,
		},
		ProcessedProducer: Producer[*model.WithdrawalProcessedEvent]{
			Producer: producer,
			Topic:    "withdrawal-processed",
			Log:      log,
		},
	}
}

func (p *WithdrawalProducer) SendRequested(event *model.WithdrawalRequestedEvent) error {
	return p.RequestedProducer.Send(event)
}

func (p *WithdrawalProducer) SendProcessed(event *model.WithdrawalProcessedEvent) error {
	return p.ProcessedProducer.Send(event)
}
