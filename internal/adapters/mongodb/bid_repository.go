package mongodb

import (
	"context"
	"errors"
	"fmt"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var highestFirst = bson.D{{Key: "amount", Value: -1}, {Key: "created_at", Value: 1}}

// BidRepository stores bids as documents
type BidRepository struct {
	coll     *mongo.Collection
	products *mongo.Collection
}

// GetByProductID retrieves all bids for a product, highest first
func (r *BidRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*bid.Bid, error) {
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "product_id", Value: productID.String()}}, options.Find().SetSort(highestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to get bids: %w", err)
	}

	var docs []bidDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bids: %w", err)
	}

	bids := make([]*bid.Bid, 0, len(docs))
	for _, doc := range docs {
		bids = append(bids, doc.toDomain())
	}
	return bids, nil
}

// GetHighestBid retrieves the highest accepted bid for a product
func (r *BidRepository) GetHighestBid(ctx context.Context, productID uuid.UUID) (*bid.Bid, error) {
	filter := bson.D{
		{Key: "product_id", Value: productID.String()},
		{Key: "status", Value: string(bid.StatusAccepted)},
	}

	var doc bidDocument
	if err := r.coll.FindOne(ctx, filter, options.FindOne().SetSort(highestFirst)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNoBidsFound
		}
		return nil, fmt.Errorf("failed to get highest bid: %w", err)
	}
	return doc.toDomain(), nil
}

// CountByProductID counts the bids on a product
func (r *BidRepository) CountByProductID(ctx context.Context, productID uuid.UUID) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "product_id", Value: productID.String()}})
	if err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}
	return int(count), nil
}

// PlaceBidWithOCC raises the product's current bid with a conditional update on
// the expected value, then records the bid. A failed insert restores the previous bid.
func (r *BidRepository) PlaceBidWithOCC(ctx context.Context, newBid *bid.Bid, expectedCurrentBid float64) error {
	productID := newBid.ProductID.String()

	filter := bson.D{
		{Key: "_id", Value: productID},
		{Key: "current_bid", Value: expectedCurrentBid},
		{Key: "status", Value: string(product.StatusActive)},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "current_bid", Value: newBid.Amount},
		{Key: "updated_at", Value: newBid.CreatedAt},
	}}}

	if newBid.Amount <= expectedCurrentBid {
		return shared.ErrBidAmountTooLow
	}

	result, err := r.products.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update product current bid: %w", err)
	}

	if result.MatchedCount == 0 {
		return r.conflictReason(ctx, productID)
	}

	if _, err := r.coll.InsertOne(ctx, fromBid(newBid)); err != nil {
		revert := bson.D{{Key: "$set", Value: bson.D{{Key: "current_bid", Value: expectedCurrentBid}}}}
		revertFilter := bson.D{{Key: "_id", Value: productID}, {Key: "current_bid", Value: newBid.Amount}}
		if _, rbErr := r.products.UpdateOne(ctx, revertFilter, revert); rbErr != nil {
			return fmt.Errorf("failed to insert bid: %v, revert failed: %w", err, rbErr)
		}
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	return nil
}

// conflictReason explains why the conditional update matched nothing
func (r *BidRepository) conflictReason(ctx context.Context, productID string) error {
	var doc productDocument
	if err := r.products.FindOne(ctx, byID(productID)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.ErrProductNotFound
		}
		return fmt.Errorf("failed to get product for OCC: %w", err)
	}
	if product.Status(doc.Status) != product.StatusActive {
		return shared.ErrAuctionClosed
	}
	return shared.ErrBidAmountTooLow
}
