package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is the envelope published to the order events topic.
type Event struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount_paise"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes order lifecycle events. Publishing is always
// best-effort for callers; a failed publish never fails the request.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// KafkaPublisher implements Publisher on a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher writing to the given topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
