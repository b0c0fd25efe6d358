package outbound

//go:generate mockgen -source=broadcaster.go -destination=mocks/mock_broadcaster.go -package=mocks

import (
	"context"

	"github.com/google/uuid"
)

// EventType represents the type of event being broadcasted
type EventType string

const (
	EventTypeProductCreated EventType = "product.created"
	EventTypeBidPlaced      EventType = "bid.placed"
	EventTypeAuctionClosed  EventType = "auction.closed"
)

// Event represents a broadcast event
type Event struct {
	Type      EventType      `json:"type"`
	ProductID uuid.UUID      `json:"product_id"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// Broadcaster defines the interface for broadcasting events
type Broadcaster interface {
	// Subscribe subscribes a client to events for a specific product
	// When a client subscribes to multiple products, all events are delivered to the same channel
	Subscribe(ctx context.Context, productID uuid.UUID, clientID string, eventChan chan Event) error

	// Unsubscribe unsubscribes a client from events for a specific product
	Unsubscribe(ctx context.Context, productID uuid.UUID, clientID string) error

	// UnsubscribeAll drops every subscription held by a client
	UnsubscribeAll(ctx context.Context, clientID string) error

	// Publish publishes an event to all subscribers of a product
	Publish(ctx context.Context, productID uuid.UUID, event Event) error

	// IsSubscribed checks if a client is subscribed to a product
	IsSubscribed(ctx context.Context, productID uuid.UUID, clientID string) bool
}
