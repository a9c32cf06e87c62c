package sink

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSink delivers each batch payload as a single Kafka message.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink creates a Kafka sink writing to topic on the given brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
	}
}

// Emit writes the payload as one message.
func (s *KafkaSink) Emit(ctx context.Context, payload []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Value: payload,
		Time:  time.Now(),
	})
}

// Close releases the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
