package broadcaster

import (
	"context"
	"testing"

	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalBroadcaster() *LocalBroadcaster {
	return NewLocalBroadcaster(LocalBroadcasterParams{Logger: zerolog.Nop()})
}

func TestLocalBroadcaster_PublishReachesSubscribers(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBroadcaster()
	productID := uuid.New()

	first := make(chan outbound.Event, 1)
	second := make(chan outbound.Event, 1)
	require.NoError(t, b.Subscribe(ctx, productID, "a", first))
	require.NoError(t, b.Subscribe(ctx, productID, "b", second))

	require.NoError(t, b.Publish(ctx, productID, outbound.Event{Type: outbound.EventTypeBidPlaced}))

	for _, ch := range []chan outbound.Event{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, outbound.EventTypeBidPlaced, event.Type)
			assert.Equal(t, productID, event.ProductID)
			assert.NotZero(t, event.Timestamp)
		default:
			t.Fatal("expected event to be delivered")
		}
	}
}

func TestLocalBroadcaster_OtherProductsAreIsolated(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBroadcaster()

	ch := make(chan outbound.Event, 1)
	require.NoError(t, b.Subscribe(ctx, uuid.New(), "a", ch))
	require.NoError(t, b.Publish(ctx, uuid.New(), outbound.Event{Type: outbound.EventTypeBidPlaced}))

	assert.Len(t, ch, 0)
}

func TestLocalBroadcaster_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBroadcaster()
	first, second := uuid.New(), uuid.New()

	ch := make(chan outbound.Event, 2)
	require.NoError(t, b.Subscribe(ctx, first, "a", ch))
	require.NoError(t, b.Subscribe(ctx, second, "a", ch))
	assert.True(t, b.IsSubscribed(ctx, first, "a"))

	require.NoError(t, b.Unsubscribe(ctx, first, "a"))
	assert.False(t, b.IsSubscribed(ctx, first, "a"))
	assert.True(t, b.IsSubscribed(ctx, second, "a"))

	require.NoError(t, b.Publish(ctx, first, outbound.Event{Type: outbound.EventTypeBidPlaced}))
	require.NoError(t, b.Publish(ctx, second, outbound.Event{Type: outbound.EventTypeAuctionClosed}))
	require.Len(t, ch, 1)
	assert.Equal(t, outbound.EventTypeAuctionClosed, (<-ch).Type)

	require.NoError(t, b.UnsubscribeAll(ctx, "a"))
	assert.False(t, b.IsSubscribed(ctx, second, "a"))
}

func TestLocalBroadcaster_FullChannelDropsEvent(t *testing.T) {
	ctx := context.Background()
	b := newTestLocalBroadcaster()
	productID := uuid.New()

	ch := make(chan outbound.Event, 1)
	require.NoError(t, b.Subscribe(ctx, productID, "a", ch))

	require.NoError(t, b.Publish(ctx, productID, outbound.Event{Type: outbound.EventTypeBidPlaced}))
	require.NoError(t, b.Publish(ctx, productID, outbound.Event{Type: outbound.EventTypeBidPlaced}))

	assert.Len(t, ch, 1)
}

func TestChannelName(t *testing.T) {
	id := uuid.MustParse("6f1c1f40-8a39-4ad6-9d1f-8c4a3c2f6b11")
	assert.Equal(t, "product:6f1c1f40-8a39-4ad6-9d1f-8c4a3c2f6b11", ChannelName(id))
}
