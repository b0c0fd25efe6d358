package mongodb

import (
	"context"
	"fmt"
	"time"

	"peram-marketplace-service/internal/config"
	"peram-marketplace-service/internal/ports/outbound"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	productsCollection   = "products"
	bidsCollection       = "bids"
)

// Store wraps a connected mongo database
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against the configured URI and pings it
func Connect(ctx context.Context, cfg *config.Config) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Database.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database.MongoDatabase)}, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "seller_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		bidsCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "amount", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}
	return nil
}

// Repositories returns the mongo-backed repositories
func (s *Store) Repositories() outbound.Repositories {
	return outbound.Repositories{
		Users:      &UserRepository{coll: s.db.Collection(usersCollection)},
		Categories: &CategoryRepository{coll: s.db.Collection(categoriesCollection), products: s.db.Collection(productsCollection)},
		Products:   &ProductRepository{coll: s.db.Collection(productsCollection), bids: s.db.Collection(bidsCollection)},
		Bids:       &BidRepository{coll: s.db.Collection(bidsCollection), products: s.db.Collection(productsCollection)},
	}
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}
