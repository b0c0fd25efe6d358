package memory

import (
	"context"
	"sort"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// BidRepository implements the bid repository interface in memory
type BidRepository struct {
	store *Store
}

// GetByProductID retrieves all bids for a product, highest first
func (r *BidRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*bid.Bid, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bids := make([]*bid.Bid, 0, len(r.store.bids[productID]))
	for _, b := range r.store.bids[productID] {
		bids = append(bids, copyBid(b))
	}
	sortBids(bids)
	return bids, nil
}

// GetHighestBid retrieves the highest accepted bid for a product
func (r *BidRepository) GetHighestBid(ctx context.Context, productID uuid.UUID) (*bid.Bid, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var highest *bid.Bid
	for _, b := range r.store.bids[productID] {
		if !b.IsAccepted() {
			continue
		}
		if highest == nil || b.Amount > highest.Amount ||
			(b.Amount == highest.Amount && b.CreatedAt.Before(highest.CreatedAt)) {
			highest = b
		}
	}
	if highest == nil {
		return nil, shared.ErrNoBidsFound
	}
	return copyBid(highest), nil
}

func (r *BidRepository) CountByProductID(ctx context.Context, productID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.bids[productID]), nil
}

// PlaceBidWithOCC compares the product's current bid against expectedCurrentBid
// and applies the bid only when nothing moved in between.
func (r *BidRepository) PlaceBidWithOCC(ctx context.Context, newBid *bid.Bid, expectedCurrentBid float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, exists := r.store.products[newBid.ProductID]
	if !exists {
		return shared.ErrProductNotFound
	}
	if p.Status != product.StatusActive {
		return shared.ErrAuctionClosed
	}
	if p.CurrentBid != expectedCurrentBid || newBid.Amount <= p.CurrentBid {
		return shared.ErrBidAmountTooLow
	}

	p.CurrentBid = newBid.Amount
	p.UpdatedAt = newBid.CreatedAt
	r.store.bids[newBid.ProductID] = append(r.store.bids[newBid.ProductID], copyBid(newBid))
	return nil
}

func sortBids(bids []*bid.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount > bids[j].Amount
		}
		return bids[i].CreatedAt.Before(bids[j].CreatedAt)
	})
}
