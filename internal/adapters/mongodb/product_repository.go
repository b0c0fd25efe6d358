package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository stores products as documents
type ProductRepository struct {
	coll *mongo.Collection
	bids *mongo.Collection
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	if _, err := r.coll.InsertOne(ctx, fromProduct(p)); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, byID(id.String())).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.toDomain(), nil
}

// List retrieves a page of products with optional filters
func (r *ProductRepository) List(ctx context.Context, filter outbound.ProductFilter) ([]*product.Product, error) {
	query := bson.D{}
	if filter.CategoryID != nil {
		query = append(query, bson.E{Key: "category_id", Value: filter.CategoryID.String()})
	}
	if filter.SellerID != nil {
		query = append(query, bson.E{Key: "seller_id", Value: filter.SellerID.String()})
	}
	if filter.Status != nil {
		query = append(query, bson.E{Key: "status", Value: string(*filter.Status)})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Page > 0 && filter.PageSize > 0 {
		opts = opts.SetSkip(int64(filter.Page-1) * int64(filter.PageSize)).SetLimit(int64(filter.PageSize))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*product.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.toDomain())
	}
	return products, nil
}

// CountByCategory counts products in a category
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "category_id", Value: categoryID.String()}})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(count), nil
}

// Update updates the editable fields of an active product, status and
// current_bid are left to CloseAuction and bid placement
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	doc := fromProduct(p)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: doc.Title},
		{Key: "description", Value: doc.Description},
		{Key: "category_id", Value: doc.CategoryID},
		{Key: "auction_end_time", Value: doc.AuctionEndTime},
		{Key: "images", Value: doc.Images},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}

	result, err := r.coll.UpdateOne(ctx, activeByID(doc.ID), update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.inactiveReason(ctx, doc.ID, shared.ErrProductClosed)
	}
	return nil
}

// CloseAuction moves an active product to closed and returns the closed document
func (r *ProductRepository) CloseAuction(ctx context.Context, id uuid.UUID, closedAt time.Time) (*product.Product, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(product.StatusClosed)},
		{Key: "updated_at", Value: closedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err := r.coll.FindOneAndUpdate(ctx, activeByID(id.String()), update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.inactiveReason(ctx, id.String(), shared.ErrAuctionAlreadyClosed)
		}
		return nil, fmt.Errorf("failed to close auction: %w", err)
	}
	return doc.toDomain(), nil
}

// inactiveReason tells a missing product from a closed one after a conditional write matched nothing
func (r *ProductRepository) inactiveReason(ctx context.Context, id string, closedErr error) error {
	count, err := r.coll.CountDocuments(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return shared.ErrProductNotFound
	}
	return closedErr
}

func activeByID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "status", Value: string(product.StatusActive)}}
}

// Delete deletes a product along with its bids
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.coll.DeleteOne(ctx, byID(id.String()))
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return shared.ErrProductNotFound
	}

	if _, err := r.bids.DeleteMany(ctx, bson.D{{Key: "product_id", Value: id.String()}}); err != nil {
		return fmt.Errorf("failed to delete product bids: %w", err)
	}
	return nil
}
