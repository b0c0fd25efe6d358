package broadcaster

import (
	"context"
	"sync"
	"time"

	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalBroadcaster delivers product events to clients connected to this process only
type LocalBroadcaster struct {
	mu       sync.RWMutex
	channels map[string]chan outbound.Event
	products map[uuid.UUID]map[string]struct{}
	logger   zerolog.Logger
}

type LocalBroadcasterParams struct {
	Logger zerolog.Logger
}

func NewLocalBroadcaster(params LocalBroadcasterParams) *LocalBroadcaster {
	return &LocalBroadcaster{
		channels: make(map[string]chan outbound.Event),
		products: make(map[uuid.UUID]map[string]struct{}),
		logger:   params.Logger.With().Str("component", "local_broadcaster").Logger(),
	}
}

func (b *LocalBroadcaster) Subscribe(ctx context.Context, productID uuid.UUID, clientID string, eventChan chan outbound.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.channels[clientID]; !exists {
		b.channels[clientID] = eventChan
	}
	if b.products[productID] == nil {
		b.products[productID] = make(map[string]struct{})
	}
	b.products[productID][clientID] = struct{}{}

	b.logger.Info().Str("client_id", clientID).Str("product_id", productID.String()).Msg("Client subscribed to product")
	return nil
}

func (b *LocalBroadcaster) Unsubscribe(ctx context.Context, productID uuid.UUID, clientID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.remove(productID, clientID)
	if !b.following(clientID) {
		delete(b.channels, clientID)
	}
	return nil
}

func (b *LocalBroadcaster) UnsubscribeAll(ctx context.Context, clientID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for productID := range b.products {
		b.remove(productID, clientID)
	}
	delete(b.channels, clientID)
	return nil
}

func (b *LocalBroadcaster) remove(productID uuid.UUID, clientID string) {
	clients, exists := b.products[productID]
	if !exists {
		return
	}
	delete(clients, clientID)
	if len(clients) == 0 {
		delete(b.products, productID)
	}
}

func (b *LocalBroadcaster) following(clientID string) bool {
	for _, clients := range b.products {
		if _, ok := clients[clientID]; ok {
			return true
		}
	}
	return false
}

// Publish delivers without blocking, a full client channel drops the event
func (b *LocalBroadcaster) Publish(ctx context.Context, productID uuid.UUID, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	event.ProductID = productID

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for clientID := range b.products[productID] {
		select {
		case b.channels[clientID] <- event:
			delivered++
		default:
			b.logger.Warn().Str("client_id", clientID).Msg("Client channel full, dropping event")
		}
	}

	b.logger.Info().
		Str("event_type", string(event.Type)).
		Str("product_id", productID.String()).
		Int("subscriber_count", delivered).
		Msg("Published product event")
	return nil
}

func (b *LocalBroadcaster) IsSubscribed(ctx context.Context, productID uuid.UUID, clientID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.products[productID][clientID]
	return ok
}

// Close drops every subscription
func (b *LocalBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.channels = make(map[string]chan outbound.Event)
	b.products = make(map[uuid.UUID]map[string]struct{})
	return nil
}
