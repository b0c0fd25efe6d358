package mongodb

import (
	"context"
	"errors"
	"fmt"

	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository stores categories as documents
type CategoryRepository struct {
	coll     *mongo.Collection
	products *mongo.Collection
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	if _, err := r.coll.InsertOne(ctx, fromCategory(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return r.findOne(ctx, byID(id.String()))
}

// GetByName retrieves a category by name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}})
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.D) (*category.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return doc.toDomain(), nil
}

// List retrieves all categories, newest first
func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]*category.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, doc.toDomain())
	}
	return categories, nil
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: c.Name},
		{Key: "description", Value: c.Description},
		{Key: "updated_at", Value: c.UpdatedAt},
	}}}

	result, err := r.coll.UpdateOne(ctx, byID(c.ID.String()), update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrCategoryExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return shared.ErrCategoryNotFound
	}
	return nil
}

// Delete deletes a category that no product references
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := r.products.CountDocuments(ctx, bson.D{{Key: "category_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("failed to count category products: %w", err)
	}
	if count > 0 {
		return shared.ErrCategoryInUse
	}

	result, err := r.coll.DeleteOne(ctx, byID(id.String()))
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return shared.ErrCategoryNotFound
	}
	return nil
}
