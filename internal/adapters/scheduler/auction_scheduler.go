package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuctionEndsKey is the sorted set of product ids scored by auction end time in unix milliseconds
const AuctionEndsKey = "product:auction_ends"

const batchSize = 10

type AuctionCloser interface {
	CloseAuction(ctx context.Context, productID uuid.UUID) (*shared.AuctionCloseResult, error)
}

type AuctionScheduler struct {
	redis       *redis.Client
	closer      AuctionCloser
	broadcaster outbound.Broadcaster
	interval    time.Duration
	logger      zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

type AuctionSchedulerParams struct {
	RedisClient *redis.Client
	Closer      AuctionCloser
	Broadcaster outbound.Broadcaster
	Logger      zerolog.Logger
}

func NewAuctionScheduler(params AuctionSchedulerParams) *AuctionScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &AuctionScheduler{
		redis:       params.RedisClient,
		closer:      params.Closer,
		broadcaster: params.Broadcaster,
		interval:    time.Second,
		logger:      params.Logger.With().Str("component", "auction_scheduler").Logger(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetCloser wires the service that closes auctions, it must be called before Start
func (s *AuctionScheduler) SetCloser(closer AuctionCloser) {
	s.closer = closer
}

// ScheduleAuction adds or moves a product in the closing schedule
func (s *AuctionScheduler) ScheduleAuction(ctx context.Context, productID uuid.UUID, endTime time.Time) error {
	err := s.redis.ZAdd(ctx, AuctionEndsKey, redis.Z{
		Score:  endScore(endTime),
		Member: productID.String(),
	}).Err()
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to schedule auction")
		return fmt.Errorf("failed to schedule auction: %w", err)
	}

	s.logger.Info().
		Str("product_id", productID.String()).
		Time("end_time", endTime).
		Msg("Auction scheduled for closing")
	return nil
}

// UnscheduleAuction removes a product from the closing schedule
func (s *AuctionScheduler) UnscheduleAuction(ctx context.Context, productID uuid.UUID) error {
	if err := s.redis.ZRem(ctx, AuctionEndsKey, productID.String()).Err(); err != nil {
		return fmt.Errorf("failed to unschedule auction: %w", err)
	}
	return nil
}

// Start begins the scheduler loop
func (s *AuctionScheduler) Start() {
	s.logger.Info().Msg("Starting auction scheduler")

	s.wg.Add(1)
	go s.loop()
}

// Stop gracefully stops the scheduler
func (s *AuctionScheduler) Stop() {
	s.logger.Info().Msg("Stopping auction scheduler")
	s.cancel()
	s.wg.Wait()
}

func (s *AuctionScheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.closeExpired()
		case <-s.ctx.Done():
			s.logger.Info().Msg("Scheduler loop stopped")
			return
		}
	}
}

// closeExpired closes up to one batch of products whose end time has passed
func (s *AuctionScheduler) closeExpired() {
	expired, err := s.redis.ZRangeByScore(s.ctx, AuctionEndsKey, &redis.ZRangeBy{
		Min:   "0",
		Max:   strconv.FormatInt(time.Now().UnixMilli(), 10),
		Count: batchSize,
	}).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to get expired auctions")
		return
	}

	if len(expired) > 0 {
		s.logger.Debug().Int("count", len(expired)).Msg("Found expired auctions")
	}

	for _, member := range expired {
		productID, err := uuid.Parse(member)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", member).Msg("Invalid product ID in schedule")
			s.redis.ZRem(s.ctx, AuctionEndsKey, member)
			continue
		}

		if err := s.closeProduct(s.ctx, productID); err != nil {
			if errors.Is(err, shared.ErrAuctionNotEnded) {
				// the end time moved later, the entry stays until it is due
				s.logger.Debug().Str("product_id", productID.String()).Msg("Auction not due yet")
				continue
			}
			s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to close auction")
			continue
		}
		s.redis.ZRem(s.ctx, AuctionEndsKey, member)
	}
}

func endScore(endTime time.Time) float64 {
	return float64(endTime.UnixMilli())
}

// closeProduct closes one auction and broadcasts the outcome. Products that are
// already closed or gone count as handled so they leave the schedule.
func (s *AuctionScheduler) closeProduct(ctx context.Context, productID uuid.UUID) error {
	result, err := s.closer.CloseAuction(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrAuctionAlreadyClosed) || errors.Is(err, shared.ErrProductNotFound) {
			s.logger.Debug().Err(err).Str("product_id", productID.String()).Msg("Skipping scheduled auction")
			return nil
		}
		return err
	}

	data := map[string]any{
		"product_id": productID.String(),
		"status":     result.Status,
	}
	if result.WinnerID != nil {
		data["winner_id"] = result.WinnerID.String()
	}
	if result.FinalPrice != nil {
		data["final_price"] = *result.FinalPrice
	}

	event := outbound.Event{
		Type:      outbound.EventTypeAuctionClosed,
		ProductID: productID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := s.broadcaster.Publish(ctx, productID, event); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to broadcast auction close")
	}

	logEvent := s.logger.Info().Str("product_id", productID.String())
	if result.WinnerID != nil {
		logEvent = logEvent.Str("winner_id", result.WinnerID.String())
	}
	if result.FinalPrice != nil {
		logEvent = logEvent.Float64("final_price", *result.FinalPrice)
	}
	logEvent.Msg("Auction closed")

	return nil
}
