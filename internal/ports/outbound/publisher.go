package outbound

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import "context"

// EventPublisher appends marketplace events to a durable log for downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
