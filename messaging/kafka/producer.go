package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"freight-admin/logger"

	"github.com/segmentio/kafka-go"
)

// Writer is the subset of *kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON payloads to one topic.
type Producer struct {
	writer Writer
	topic  string
}

// NewProducer connects to broker. Messages with the same key land on the
// same partition, which keeps events of one shipment ordered.
func NewProducer(broker, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
		topic: topic,
	}
}

func NewProducerWithWriter(w Writer, topic string) *Producer {
	return &Producer{writer: w, topic: topic}
}

// Publish encodes value and writes it under key.
func (p *Producer) Publish(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal kafka payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to topic %s: %w", p.topic, err)
	}
	logger.Debug(fmt.Sprintf("Kafka published to %s: %s", p.topic, key))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
