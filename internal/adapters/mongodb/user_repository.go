package mongodb

import (
	"context"
	"errors"
	"fmt"

	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository stores users as documents keyed by their uuid
type UserRepository struct {
	coll *mongo.Collection
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if _, err := r.coll.InsertOne(ctx, fromUser(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Upsert creates a user or refreshes the profile of an existing one
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "email", Value: u.Email},
			{Key: "name", Value: u.Name},
			{Key: "updated_at", Value: u.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "password_hash", Value: u.PasswordHash},
			{Key: "created_at", Value: u.CreatedAt},
		}},
	}

	_, err := r.coll.UpdateOne(ctx, byID(u.ID.String()), update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, byID(id.String()))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toDomain(), nil
}
