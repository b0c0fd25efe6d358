package app

import (
	"context"
	"errors"
	"time"

	"peram-marketplace-service/internal/adapters/metrics"
	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100

	winnerReadAttempts = 5
	winnerReadDelay    = 50 * time.Millisecond
)

// Auction outcomes reported by CloseAuction
const (
	CloseStatusSold   = "sold"
	CloseStatusUnsold = "unsold"
)

// ProductService implements the product use cases and scheduler.AuctionCloser
type ProductService struct {
	productRepo     outbound.ProductRepository
	categoryRepo    outbound.CategoryRepository
	bidRepo         outbound.BidRepository
	scheduler       outbound.AuctionScheduler
	publisher       outbound.EventPublisher
	defaultDuration time.Duration
	now             func() time.Time
	logger          zerolog.Logger
}

type ProductServiceParams struct {
	ProductRepo     outbound.ProductRepository
	CategoryRepo    outbound.CategoryRepository
	BidRepo         outbound.BidRepository
	Scheduler       outbound.AuctionScheduler
	Publisher       outbound.EventPublisher
	DefaultDuration time.Duration
	Clock           func() time.Time
	Logger          zerolog.Logger
}

func NewProductService(params ProductServiceParams) *ProductService {
	duration := params.DefaultDuration
	if duration <= 0 {
		duration = product.DefaultAuctionDuration
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}

	return &ProductService{
		productRepo:     params.ProductRepo,
		categoryRepo:    params.CategoryRepo,
		bidRepo:         params.BidRepo,
		scheduler:       params.Scheduler,
		publisher:       params.Publisher,
		defaultDuration: duration,
		now:             func() time.Time { return clock().UTC() },
		logger:          params.Logger.With().Str("component", "product_service").Logger(),
	}
}

// SetScheduler sets the auction scheduler, the scheduler itself needs this service to close auctions
func (service *ProductService) SetScheduler(scheduler outbound.AuctionScheduler) {
	service.scheduler = scheduler
}

// CreateProduct lists a new product with CurrentBid equal to StartingBid
func (service *ProductService) CreateProduct(ctx context.Context, req inbound.CreateProductRequest) (*product.Product, error) {
	service.logger.Info().
		Str("seller_id", req.SellerID.String()).
		Str("category_id", req.CategoryID.String()).
		Float64("starting_bid", req.StartingBid).
		Msg("Attempting to create product")

	title := cleanText(req.Title)
	if title == "" {
		return nil, shared.ErrTitleRequired
	}
	if !shared.ValidAmount(req.StartingBid) {
		return nil, shared.ErrInvalidStartingBid
	}

	now := service.now()
	endTime := now.Add(service.defaultDuration)
	if req.AuctionEndTime != nil {
		endTime = req.AuctionEndTime.UTC()
		if !endTime.After(now) {
			service.logger.Warn().Time("auction_end_time", endTime).Msg("Auction end time is not in the future")
			return nil, shared.ErrInvalidAuctionEnd
		}
	}

	if _, err := service.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		service.logger.Warn().Err(err).Str("category_id", req.CategoryID.String()).Msg("Category lookup failed")
		return nil, err
	}

	p := &product.Product{
		ID:             uuid.New(),
		Title:          title,
		Description:    cleanText(req.Description),
		CategoryID:     req.CategoryID,
		SellerID:       req.SellerID,
		StartingBid:    req.StartingBid,
		CurrentBid:     req.StartingBid,
		AuctionEndTime: endTime,
		Images:         cleanImages(req.Images),
		Status:         product.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := service.productRepo.Create(ctx, p); err != nil {
		service.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("Failed to save product")
		return nil, err
	}

	service.logger.Info().
		Str("product_id", p.ID.String()).
		Time("auction_end_time", p.AuctionEndTime).
		Msg("Product created")

	service.schedule(ctx, p)
	service.publish(ctx, outbound.EventTypeProductCreated, p.ID, map[string]any{
		"seller_id":        p.SellerID.String(),
		"category_id":      p.CategoryID.String(),
		"title":            p.Title,
		"starting_bid":     p.StartingBid,
		"auction_end_time": p.AuctionEndTime,
	})

	return p, nil
}

func (service *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error) {
	return service.productRepo.GetByID(ctx, productID)
}

// ListProducts returns a page of products, newest first
func (service *ProductService) ListProducts(ctx context.Context, req inbound.ListProductsRequest) ([]*product.Product, error) {
	page, pageSize := NormalizePage(req.Page, req.PageSize)

	return service.productRepo.List(ctx, outbound.ProductFilter{
		CategoryID: req.CategoryID,
		SellerID:   req.SellerID,
		Status:     req.Status,
		Page:       page,
		PageSize:   pageSize,
	})
}

// NormalizePage applies the default page and clamps the page size
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// UpdateProduct changes a listing on behalf of its seller
func (service *ProductService) UpdateProduct(ctx context.Context, req inbound.UpdateProductRequest) (*product.Product, error) {
	p, err := service.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsSeller(req.ActorID) {
		service.logger.Warn().Str("product_id", p.ID.String()).Str("actor_id", req.ActorID.String()).Msg("Non-seller tried to update product")
		return nil, shared.ErrNotProductSeller
	}
	if p.IsClosed() {
		return nil, shared.ErrProductClosed
	}

	now := service.now()
	rescheduled := false

	if req.Title != nil {
		title := cleanText(*req.Title)
		if title == "" {
			return nil, shared.ErrTitleRequired
		}
		p.Title = title
	}
	if req.Description != nil {
		p.Description = cleanText(*req.Description)
	}
	if req.CategoryID != nil && *req.CategoryID != p.CategoryID {
		if _, err := service.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = *req.CategoryID
	}
	if req.AuctionEndTime != nil {
		endTime := req.AuctionEndTime.UTC()
		if !endTime.After(now) {
			return nil, shared.ErrInvalidAuctionEnd
		}
		rescheduled = !endTime.Equal(p.AuctionEndTime)
		p.AuctionEndTime = endTime
	}
	if req.Images != nil {
		p.Images = cleanImages(req.Images)
	}
	p.UpdatedAt = now

	if err := service.productRepo.Update(ctx, p); err != nil {
		service.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("Failed to update product")
		return nil, err
	}

	// the stored row keeps the latest current bid, re-read it so the response is not stale
	updated, err := service.productRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if rescheduled {
		service.schedule(ctx, updated)
	}

	service.logger.Info().Str("product_id", p.ID.String()).Msg("Product updated")
	return updated, nil
}

// DeleteProduct removes a listing that has not received bids
func (service *ProductService) DeleteProduct(ctx context.Context, productID, actorID uuid.UUID) error {
	p, err := service.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsSeller(actorID) {
		return shared.ErrNotProductSeller
	}

	count, err := service.bidRepo.CountByProductID(ctx, productID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrProductHasBids
	}

	if err := service.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	if service.scheduler != nil {
		if err := service.scheduler.UnscheduleAuction(ctx, productID); err != nil {
			service.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to unschedule deleted product")
		}
	}

	service.logger.Info().Str("product_id", productID.String()).Msg("Product deleted")
	return nil
}

// CloseAuction closes bidding and reports the highest accepted bid as the winner
func (service *ProductService) CloseAuction(ctx context.Context, productID uuid.UUID) (*shared.AuctionCloseResult, error) {
	service.logger.Info().Str("product_id", productID.String()).Msg("Closing auction")

	p, err := service.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.IsClosed() {
		return nil, shared.ErrAuctionAlreadyClosed
	}
	now := service.now()
	if p.IsOpen(now) {
		service.logger.Debug().Str("product_id", productID.String()).Time("auction_end_time", p.AuctionEndTime).Msg("Auction has not ended yet")
		return nil, shared.ErrAuctionNotEnded
	}

	// bid placement requires an active product, so the winner is read after the flip
	closed, err := service.productRepo.CloseAuction(ctx, productID, now)
	if err != nil {
		if !errors.Is(err, shared.ErrAuctionAlreadyClosed) {
			service.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to persist closed auction")
		}
		return nil, err
	}

	highestBid, err := service.winningBid(ctx, closed)
	if err != nil {
		service.logger.Error().Err(err).Str("product_id", productID.String()).Msg("Failed to get highest bid")
		return nil, err
	}

	result := &shared.AuctionCloseResult{ProductID: productID, Status: CloseStatusUnsold}
	if highestBid != nil {
		result.Status = CloseStatusSold
		result.WinnerID = &highestBid.BuyerID
		result.FinalPrice = &highestBid.Amount
	}
	metrics.AuctionClosed(result.Status)

	data := map[string]any{"status": result.Status}
	if highestBid != nil {
		data["winner_id"] = highestBid.BuyerID.String()
		data["final_price"] = highestBid.Amount
	}
	service.publish(ctx, outbound.EventTypeAuctionClosed, productID, data)

	return result, nil
}

// winningBid reads the highest bid once it agrees with the current bid the close
// committed. Stores that write the bid record after the current bid may lag briefly.
func (service *ProductService) winningBid(ctx context.Context, closed *product.Product) (*bid.Bid, error) {
	expected := closed.CurrentBid

	for attempt := 1; ; attempt++ {
		highest, err := service.bidRepo.GetHighestBid(ctx, closed.ID)
		if err != nil && !errors.Is(err, shared.ErrNoBidsFound) {
			return nil, err
		}

		settled := (highest == nil && expected == closed.StartingBid) ||
			(highest != nil && highest.Amount == expected)
		if settled {
			return highest, nil
		}
		if attempt == winnerReadAttempts {
			service.logger.Warn().
				Str("product_id", closed.ID.String()).
				Float64("current_bid", expected).
				Msg("Highest bid does not match the closed current bid")
			return highest, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(winnerReadDelay):
		}

		// a failed bid insert rolls the current bid back
		if latest, err := service.productRepo.GetByID(ctx, closed.ID); err == nil {
			expected = latest.CurrentBid
		}
	}
}

func (service *ProductService) schedule(ctx context.Context, p *product.Product) {
	if service.scheduler == nil {
		return
	}
	if err := service.scheduler.ScheduleAuction(ctx, p.ID, p.AuctionEndTime); err != nil {
		// the listing stays valid, bids are still refused after the end time
		service.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("Failed to schedule auction close")
	}
}

func (service *ProductService) publish(ctx context.Context, eventType outbound.EventType, productID uuid.UUID, data map[string]any) {
	if service.publisher == nil {
		return
	}
	event := outbound.Event{
		Type:      eventType,
		ProductID: productID,
		Data:      data,
		Timestamp: service.now().Unix(),
	}
	if err := service.publisher.Publish(ctx, event); err != nil {
		service.logger.Error().Err(err).Str("product_id", productID.String()).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}
