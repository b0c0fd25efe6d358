package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher appends marketplace events to a Kafka topic keyed by product id
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

type KafkaPublisherParams struct {
	Config *config.Config
	Logger zerolog.Logger
}

func NewKafkaPublisher(params KafkaPublisherParams) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(params.Config.Kafka.Brokers...),
		Topic:        params.Config.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}

	return newKafkaPublisher(writer, params.Logger)
}

func newKafkaPublisher(writer messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// Publish writes the event as JSON with its type in a header
func (p *KafkaPublisher) Publish(ctx context.Context, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ProductID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: time.Unix(event.Timestamp, 0),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).
			Str("event_type", string(event.Type)).
			Str("product_id", event.ProductID.String()).
			Msg("Failed to write event to kafka")
		return fmt.Errorf("failed to write event: %w", err)
	}

	p.logger.Debug().
		Str("event_type", string(event.Type)).
		Str("product_id", event.ProductID.String()).
		Msg("Event written to kafka")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
