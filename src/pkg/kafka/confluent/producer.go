package kafka

import (
	"fmt"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"

	"shop-service/src/pkg/log"
)

type producer struct {
	kafkaProducer *k.Producer
	logger        log.Log
}

func NewProducer(config *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(config)
	if err != nil {
		return nil, err
	}

	// drain delivery reports so the internal queue never fills up
	go func() {
		for e := range p.Events() {
			if m, ok := e.(*k.Message); ok && m.TopicPartition.Error != nil {
				logger.Error("kafka-producer",
					fmt.Sprintf("delivery failed: %v", m.TopicPartition.Error),
					"deliveryReport", "")
			}
		}
	}()

	return &producer{kafkaProducer: p, logger: logger}, nil
}

func (p *producer) Publish(message *k.Message) error {
	return p.kafkaProducer.Produce(message, nil)
}

func (p *producer) Close() {
	p.kafkaProducer.Flush(5000)
	p.kafkaProducer.Close()
}
