package events

import (
	"context"

	"peram-marketplace-service/internal/ports/outbound"
)

// NoopPublisher discards events when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event outbound.Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
