package repository

import (
	"context"
	"fmt"

	"FutScan/internal/domain/models"
	"FutScan/internal/domain/repository"
	"FutScan/pkg/kafka"
)

// KafkaPublisher emits every ranked opportunity as a JSON event, keyed by
// instrument so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishOpportunity(ctx context.Context, op *models.ScoredOpportunity) error {
	key := []byte(op.Instrument)
	if err := p.producer.Publish(ctx, p.topic, key, op); err != nil {
		return fmt.Errorf("publish opportunity %s/%s: %w", op.Instrument, op.Timeframe, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ repository.EventPublisher = (*KafkaPublisher)(nil)
