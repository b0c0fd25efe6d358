package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/inbound"
	"peram-marketplace-service/internal/ports/outbound"
	"peram-marketplace-service/internal/ports/outbound/mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func openProduct(sellerID uuid.UUID, currentBid float64) *product.Product {
	return &product.Product{
		ID:             uuid.New(),
		Title:          "Road bike",
		CategoryID:     uuid.New(),
		SellerID:       sellerID,
		StartingBid:    50,
		CurrentBid:     currentBid,
		AuctionEndTime: fixedNow.Add(time.Hour),
		Status:         product.StatusActive,
		CreatedAt:      fixedNow.Add(-time.Hour),
		UpdatedAt:      fixedNow.Add(-time.Hour),
	}
}

func TestBidService_PlaceBid(t *testing.T) {
	sellerID := uuid.New()
	buyerID := uuid.New()

	tests := []struct {
		name        string
		product     *product.Product
		lookupErr   error
		buyerID     uuid.UUID
		amount      float64
		occErr      error
		expectOCC   bool
		expectedErr error
	}{
		{
			name:      "success",
			product:   openProduct(sellerID, 50),
			buyerID:   buyerID,
			amount:    75,
			expectOCC: true,
		},
		{
			name:        "product not found",
			lookupErr:   shared.ErrProductNotFound,
			buyerID:     buyerID,
			amount:      75,
			expectedErr: shared.ErrProductNotFound,
		},
		{
			name: "closed product",
			product: func() *product.Product {
				p := openProduct(sellerID, 50)
				p.Status = product.StatusClosed
				return p
			}(),
			buyerID:     buyerID,
			amount:      75,
			expectedErr: shared.ErrAuctionClosed,
		},
		{
			name: "end time passed",
			product: func() *product.Product {
				p := openProduct(sellerID, 50)
				p.AuctionEndTime = fixedNow
				return p
			}(),
			buyerID:     buyerID,
			amount:      75,
			expectedErr: shared.ErrAuctionClosed,
		},
		{
			name:        "seller bids on own product",
			product:     openProduct(sellerID, 50),
			buyerID:     sellerID,
			amount:      75,
			expectedErr: shared.ErrOwnProductBid,
		},
		{
			name:        "zero amount",
			product:     openProduct(sellerID, 50),
			buyerID:     buyerID,
			amount:      0,
			expectedErr: shared.ErrBidAmountInvalid,
		},
		{
			name:        "sub-cent increment",
			product:     openProduct(sellerID, 100),
			buyerID:     buyerID,
			amount:      100.004,
			expectedErr: shared.ErrBidAmountInvalid,
		},
		{
			name:        "amount beyond the price range",
			product:     openProduct(sellerID, 100),
			buyerID:     buyerID,
			amount:      1e12,
			expectedErr: shared.ErrBidAmountInvalid,
		},
		{
			name:        "amount equal to current bid",
			product:     openProduct(sellerID, 80),
			buyerID:     buyerID,
			amount:      80,
			expectedErr: shared.ErrBidAmountTooLow,
		},
		{
			name:        "lost the race",
			product:     openProduct(sellerID, 50),
			buyerID:     buyerID,
			amount:      60,
			expectOCC:   true,
			occErr:      shared.ErrBidAmountTooLow,
			expectedErr: shared.ErrBidAmountTooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			productRepo := mocks.NewMockProductRepository(ctrl)
			bidRepo := mocks.NewMockBidRepository(ctrl)
			broadcaster := mocks.NewMockBroadcaster(ctrl)
			publisher := mocks.NewMockEventPublisher(ctrl)

			productID := uuid.New()
			if tt.product != nil {
				productID = tt.product.ID
			}

			productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(tt.product, tt.lookupErr)

			if tt.expectOCC {
				bidRepo.EXPECT().
					PlaceBidWithOCC(gomock.Any(), gomock.Any(), tt.product.CurrentBid).
					DoAndReturn(func(_ context.Context, b *bid.Bid, _ float64) error {
						require.Equal(t, tt.amount, b.Amount)
						require.Equal(t, bid.StatusAccepted, b.Status)
						return tt.occErr
					})
			}

			if tt.expectedErr == nil {
				broadcaster.EXPECT().
					Publish(gomock.Any(), productID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, event outbound.Event) error {
						require.Equal(t, outbound.EventTypeBidPlaced, event.Type)
						require.Equal(t, tt.amount, event.Data["amount"])
						return nil
					})
				publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			}

			service := NewBidService(BidServiceParams{
				BidRepo:     bidRepo,
				ProductRepo: productRepo,
				Broadcaster: broadcaster,
				Publisher:   publisher,
				Clock:       fixedClock,
				Logger:      zerolog.Nop(),
			})

			placed, err := service.PlaceBid(context.Background(), inbound.PlaceBidRequest{
				ProductID: productID,
				BuyerID:   tt.buyerID,
				Amount:    tt.amount,
			})

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, placed)
				return
			}

			require.NoError(t, err)
			require.Equal(t, productID, placed.ProductID)
			require.Equal(t, tt.buyerID, placed.BuyerID)
			require.Equal(t, fixedNow, placed.CreatedAt)
		})
	}
}

func TestBidService_GetBids(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	productRepo := mocks.NewMockProductRepository(ctrl)
	bidRepo := mocks.NewMockBidRepository(ctrl)
	service := NewBidService(BidServiceParams{BidRepo: bidRepo, ProductRepo: productRepo, Logger: zerolog.Nop()})

	known := openProduct(uuid.New(), 50)
	bids := []*bid.Bid{{ID: uuid.New(), ProductID: known.ID, Amount: 90}}

	productRepo.EXPECT().GetByID(gomock.Any(), known.ID).Return(known, nil)
	bidRepo.EXPECT().GetByProductID(gomock.Any(), known.ID).Return(bids, nil)

	got, err := service.GetBids(context.Background(), known.ID)
	require.NoError(t, err)
	require.Equal(t, bids, got)

	missing := uuid.New()
	productRepo.EXPECT().GetByID(gomock.Any(), missing).Return(nil, shared.ErrProductNotFound)

	_, err = service.GetBids(context.Background(), missing)
	require.ErrorIs(t, err, shared.ErrProductNotFound)
}
