package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Publisher is a thin wrapper around segmentio/kafka-go Writer, shared by
// all workflow-engine bridge topics.
type Publisher struct {
	w *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{w: w}
}

// Publish writes one message. Key affinity keeps messages for the same
// correlation key on one partition.
func (p *Publisher) Publish(ctx context.Context, topic, key string, value []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Publisher) Close() error { return p.w.Close() }
