package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypePlaceBid    MessageType = "place_bid"
	MessageTypePing        MessageType = "ping"

	// Server to Client message types
	MessageTypeWelcome       MessageType = "welcome"
	MessageTypeSubscribed    MessageType = "subscribed"
	MessageTypeUnsubscribed  MessageType = "unsubscribed"
	MessageTypeBidPlaced     MessageType = "bid_placed"
	MessageTypeAuctionClosed MessageType = "auction_closed"
	MessageTypeProductUpdate MessageType = "product_update"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

const welcomeText = "Welcome to the WebSocket server!"

type ClientMessage struct {
	Type      MessageType    `json:"type"`
	ProductID *uuid.UUID     `json:"product_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType    `json:"type"`
	ProductID *uuid.UUID     `json:"product_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Error     *string        `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]any),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, productID *uuid.UUID) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		ProductID: productID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// NewWelcomeMessage is sent once right after the upgrade
func NewWelcomeMessage() *ServerMessage {
	msg := NewServerMessage(MessageTypeWelcome)
	msg.Data["message"] = welcomeText
	return msg
}

func (m *ClientMessage) validateProductID() error {
	if m.ProductID == nil || *m.ProductID == uuid.Nil {
		return shared.ErrProductIDRequired
	}
	return nil
}

// amount reads the bid amount from data, falling back to bid_amount
func (m *ClientMessage) amount() (float64, bool) {
	if v, ok := m.Data["amount"].(float64); ok {
		return v, true
	}
	v, ok := m.Data["bid_amount"].(float64)
	return v, ok
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSubscribe, MessageTypeUnsubscribe:
		return m.validateProductID()
	case MessageTypePlaceBid:
		if err := m.validateProductID(); err != nil {
			return err
		}
		if amount, ok := m.amount(); !ok || amount <= 0 {
			return shared.ErrInvalidAmount
		}
	case MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}
