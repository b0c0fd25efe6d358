package ws

import (
	"encoding/json"
	"testing"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientMessage(t *testing.T) {
	productID := uuid.New()

	msg, err := ParseClientMessage([]byte(`{"type":"subscribe","product_id":"` + productID.String() + `"}`))
	require.NoError(t, err)
	assert.Equal(t, MessageTypeSubscribe, msg.Type)
	require.NotNil(t, msg.ProductID)
	assert.Equal(t, productID, *msg.ProductID)

	_, err = ParseClientMessage([]byte(`{"product_id":"` + productID.String() + `"}`))
	assert.ErrorIs(t, err, shared.ErrMessageTypeRequired)

	_, err = ParseClientMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestClientMessage_Validate(t *testing.T) {
	productID := uuid.New()
	nilID := uuid.Nil

	tests := []struct {
		name        string
		msg         ClientMessage
		expectedErr error
	}{
		{name: "subscribe", msg: ClientMessage{Type: MessageTypeSubscribe, ProductID: &productID}},
		{name: "subscribe without product", msg: ClientMessage{Type: MessageTypeSubscribe}, expectedErr: shared.ErrProductIDRequired},
		{name: "unsubscribe with nil product", msg: ClientMessage{Type: MessageTypeUnsubscribe, ProductID: &nilID}, expectedErr: shared.ErrProductIDRequired},
		{name: "ping", msg: ClientMessage{Type: MessageTypePing}},
		{
			name: "place bid",
			msg:  ClientMessage{Type: MessageTypePlaceBid, ProductID: &productID, Data: map[string]any{"amount": 25.0}},
		},
		{
			name: "place bid with legacy amount key",
			msg:  ClientMessage{Type: MessageTypePlaceBid, ProductID: &productID, Data: map[string]any{"bid_amount": 25.0}},
		},
		{
			name:        "place bid without amount",
			msg:         ClientMessage{Type: MessageTypePlaceBid, ProductID: &productID},
			expectedErr: shared.ErrInvalidAmount,
		},
		{
			name:        "place bid with negative amount",
			msg:         ClientMessage{Type: MessageTypePlaceBid, ProductID: &productID, Data: map[string]any{"amount": -1.0}},
			expectedErr: shared.ErrInvalidAmount,
		},
		{name: "unknown type", msg: ClientMessage{Type: "create_auction"}, expectedErr: shared.ErrUnknownMessageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewWelcomeMessage(t *testing.T) {
	raw, err := json.Marshal(NewWelcomeMessage())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "welcome", decoded["type"])
	assert.Equal(t, map[string]any{"message": "Welcome to the WebSocket server!"}, decoded["data"])
}
