package outbound

//go:generate mockgen -source=scheduler.go -destination=mocks/mock_scheduler.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuctionScheduler closes product auctions once their end time passes
type AuctionScheduler interface {
	ScheduleAuction(ctx context.Context, productID uuid.UUID, endTime time.Time) error
	UnscheduleAuction(ctx context.Context, productID uuid.UUID) error
}
