package app

import (
	"context"
	"errors"
	"time"

	"peram-marketplace-service/internal/adapters/metrics"
	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BidService implements the bid use cases
type BidService struct {
	bidRepo     outbound.BidRepository
	productRepo outbound.ProductRepository
	broadcaster outbound.Broadcaster
	publisher   outbound.EventPublisher
	now         func() time.Time
	logger      zerolog.Logger
}

type BidServiceParams struct {
	BidRepo     outbound.BidRepository
	ProductRepo outbound.ProductRepository
	Broadcaster outbound.Broadcaster
	Publisher   outbound.EventPublisher
	Clock       func() time.Time
	Logger      zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}

	return &BidService{
		bidRepo:     params.BidRepo,
		productRepo: params.ProductRepo,
		broadcaster: params.Broadcaster,
		publisher:   params.Publisher,
		now:         func() time.Time { return clock().UTC() },
		logger:      params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// PlaceBid places a new bid on a product
func (service *BidService) PlaceBid(ctx context.Context, req inbound.PlaceBidRequest) (*bid.Bid, error) {
	service.logger.Info().
		Str("product_id", req.ProductID.String()).
		Str("buyer_id", req.BuyerID.String()).
		Float64("amount", req.Amount).
		Msg("Attempting to place bid")

	p, err := service.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		service.logger.Warn().Err(err).Str("product_id", req.ProductID.String()).Msg("Product lookup failed")
		return nil, service.rejected(err, "product_not_found")
	}

	now := service.now()
	if !p.IsOpen(now) {
		service.logger.Warn().
			Str("product_id", p.ID.String()).
			Str("status", string(p.Status)).
			Time("auction_end_time", p.AuctionEndTime).
			Msg("Auction not accepting bids")
		return nil, service.rejected(shared.ErrAuctionClosed, "auction_closed")
	}

	if p.IsSeller(req.BuyerID) {
		service.logger.Warn().Str("product_id", p.ID.String()).Msg("Seller tried to bid on own product")
		return nil, service.rejected(shared.ErrOwnProductBid, "own_product")
	}

	newBid := &bid.Bid{
		ID:        uuid.New(),
		ProductID: p.ID,
		BuyerID:   req.BuyerID,
		Amount:    req.Amount,
		CreatedAt: now,
	}
	if !newBid.IsValid() {
		return nil, service.rejected(shared.ErrBidAmountInvalid, "invalid_amount")
	}

	if newBid.Amount <= p.CurrentBid {
		service.logger.Warn().
			Str("product_id", p.ID.String()).
			Float64("current_bid", p.CurrentBid).
			Float64("amount", req.Amount).
			Msg("Bid amount too low")
		return nil, service.rejected(shared.ErrBidAmountTooLow, "too_low")
	}

	newBid.Accept(now)

	// the write only lands if no other bid moved the current bid since it was read
	if err := service.bidRepo.PlaceBidWithOCC(ctx, newBid, p.CurrentBid); err != nil {
		service.logger.Warn().Err(err).Str("bid_id", newBid.ID.String()).Msg("Failed to place bid with OCC")
		return nil, service.rejected(err, "conflict")
	}
	metrics.BidPlaced()

	event := outbound.Event{
		Type:      outbound.EventTypeBidPlaced,
		ProductID: p.ID,
		Data: map[string]any{
			"bid_id":      newBid.ID.String(),
			"buyer_id":    newBid.BuyerID.String(),
			"amount":      newBid.Amount,
			"current_bid": newBid.Amount,
			"created_at":  newBid.CreatedAt,
		},
		Timestamp: now.Unix(),
	}

	if service.broadcaster != nil {
		if err := service.broadcaster.Publish(ctx, p.ID, event); err != nil {
			service.logger.Error().Err(err).Str("bid_id", newBid.ID.String()).Msg("Failed to broadcast bid event")
		}
	}
	if service.publisher != nil {
		if err := service.publisher.Publish(ctx, event); err != nil {
			service.logger.Error().Err(err).Str("bid_id", newBid.ID.String()).Msg("Failed to publish bid event")
		}
	}

	service.logger.Info().
		Str("bid_id", newBid.ID.String()).
		Str("product_id", p.ID.String()).
		Str("buyer_id", newBid.BuyerID.String()).
		Float64("amount", newBid.Amount).
		Msg("Bid placed")

	return newBid, nil
}

// GetBids retrieves bids for a product, highest first
func (service *BidService) GetBids(ctx context.Context, productID uuid.UUID) ([]*bid.Bid, error) {
	if _, err := service.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return service.bidRepo.GetByProductID(ctx, productID)
}

// GetHighestBid retrieves the highest bid for a product
func (service *BidService) GetHighestBid(ctx context.Context, productID uuid.UUID) (*bid.Bid, error) {
	return service.bidRepo.GetHighestBid(ctx, productID)
}

func (service *BidService) rejected(err error, reason string) error {
	if errors.Is(err, shared.ErrBidAmountTooLow) {
		reason = "too_low"
	} else if errors.Is(err, shared.ErrAuctionClosed) {
		reason = "auction_closed"
	}
	metrics.BidRejected(reason)
	return err
}
