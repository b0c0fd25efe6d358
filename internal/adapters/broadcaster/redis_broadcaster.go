package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ChannelName returns the pub/sub channel carrying a product's events
func ChannelName(productID uuid.UUID) string {
	return fmt.Sprintf("product:%s", productID.String())
}

// RedisBroadcaster fans product events out across service instances over Redis pub/sub.
// Each client gets one PubSub connection that is re-subscribed as it follows more products.
type RedisBroadcaster struct {
	client  *redis.Client
	clients map[string]*redisSubscriber
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	logger  zerolog.Logger
}

type redisSubscriber struct {
	pubsub   *redis.PubSub
	events   chan outbound.Event
	products map[uuid.UUID]struct{}
}

type RedisBroadcasterParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

func NewRedisBroadcaster(params RedisBroadcasterParams) *RedisBroadcaster {
	ctx, cancel := context.WithCancel(context.Background())

	return &RedisBroadcaster{
		client:  params.RedisClient,
		clients: make(map[string]*redisSubscriber),
		ctx:     ctx,
		cancel:  cancel,
		logger:  params.Logger.With().Str("component", "redis_broadcaster").Logger(),
	}
}

// Subscribe subscribes a client to events for a product
func (r *RedisBroadcaster) Subscribe(ctx context.Context, productID uuid.UUID, clientID string, eventChan chan outbound.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.clients[clientID]
	if exists {
		if _, ok := sub.products[productID]; ok {
			r.logger.Debug().
				Str("client_id", clientID).
				Str("product_id", productID.String()).
				Msg("Client already subscribed to product")
			return nil
		}
	} else {
		sub = &redisSubscriber{
			pubsub:   r.client.Subscribe(ctx),
			events:   eventChan,
			products: make(map[uuid.UUID]struct{}),
		}
		r.clients[clientID] = sub
		go r.listen(clientID, sub)
	}

	if err := sub.pubsub.Subscribe(ctx, ChannelName(productID)); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("product_id", productID.String()).Msg("Failed to subscribe to Redis channel")
		return fmt.Errorf("failed to subscribe to product channel: %w", err)
	}
	sub.products[productID] = struct{}{}

	r.logger.Info().
		Str("client_id", clientID).
		Str("product_id", productID.String()).
		Msg("Client subscribed to product")
	return nil
}

// Unsubscribe unsubscribes a client from a product's events
func (r *RedisBroadcaster) Unsubscribe(ctx context.Context, productID uuid.UUID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.clients[clientID]
	if !exists {
		return nil
	}
	if _, ok := sub.products[productID]; !ok {
		return nil
	}
	delete(sub.products, productID)

	if len(sub.products) == 0 {
		r.drop(clientID, sub)
		return nil
	}

	if err := sub.pubsub.Unsubscribe(ctx, ChannelName(productID)); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("product_id", productID.String()).Msg("Error unsubscribing from Redis channel")
		return fmt.Errorf("failed to unsubscribe from product channel: %w", err)
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("product_id", productID.String()).
		Msg("Client unsubscribed from product")
	return nil
}

// UnsubscribeAll removes every subscription held by a client
func (r *RedisBroadcaster) UnsubscribeAll(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, exists := r.clients[clientID]; exists {
		r.drop(clientID, sub)
	}
	return nil
}

// drop closes the client's PubSub, the event channel stays owned by the caller. Callers hold mu.
func (r *RedisBroadcaster) drop(clientID string, sub *redisSubscriber) {
	if err := sub.pubsub.Close(); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
	}
	delete(r.clients, clientID)
	r.logger.Info().Str("client_id", clientID).Msg("Client removed from broadcaster")
}

// Publish publishes an event to every subscriber of a product
func (r *RedisBroadcaster) Publish(ctx context.Context, productID uuid.UUID, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	event.ProductID = productID

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	receivers, err := r.client.Publish(ctx, ChannelName(productID), payload).Result()
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to publish to Redis")
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	r.logger.Info().
		Str("event_type", string(event.Type)).
		Str("product_id", productID.String()).
		Int64("subscriber_count", receivers).
		Msg("Published product event")
	return nil
}

// IsSubscribed checks if a client follows a product
func (r *RedisBroadcaster) IsSubscribed(ctx context.Context, productID uuid.UUID, clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.clients[clientID]
	if !exists {
		return false
	}
	_, ok := sub.products[productID]
	return ok
}

// listen forwards Redis messages to the client's channel until its PubSub closes
func (r *RedisBroadcaster) listen(clientID string, sub *redisSubscriber) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Str("client_id", clientID).Msg("Redis listener panic")
		}
	}()

	ch := sub.pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event outbound.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal Redis message")
				continue
			}

			select {
			case sub.events <- event:
			default:
				r.logger.Warn().Str("client_id", clientID).Msg("Client channel full, dropping event")
			}

		case <-r.ctx.Done():
			return
		}
	}
}

// Close stops every listener and closes all PubSub connections
func (r *RedisBroadcaster) Close() error {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, sub := range r.clients {
		r.drop(clientID, sub)
	}
	return nil
}
