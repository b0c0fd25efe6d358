package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newKafkaPublisher(writer, zerolog.Nop())
	productID := uuid.New()

	err := publisher.Publish(context.Background(), outbound.Event{
		Type:      outbound.EventTypeBidPlaced,
		ProductID: productID,
		Data:      map[string]any{"amount": 12.5},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, productID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, string(outbound.EventTypeBidPlaced), string(msg.Headers[0].Value))

	var decoded outbound.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, outbound.EventTypeBidPlaced, decoded.Type)
	assert.Equal(t, 12.5, decoded.Data["amount"])
	assert.NotZero(t, decoded.Timestamp)

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	writer := &recordingWriter{err: errors.New("leader not available")}
	publisher := newKafkaPublisher(writer, zerolog.Nop())

	err := publisher.Publish(context.Background(), outbound.Event{Type: outbound.EventTypeProductCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}
