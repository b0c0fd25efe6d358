package outbound

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user, failing with ErrUserAlreadyExists on a duplicate email
	Create(ctx context.Context, u *user.User) error

	// Upsert creates or refreshes a user mirrored from an external identity provider
	Upsert(ctx context.Context, u *user.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)

	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	// Create creates a new category, failing with ErrCategoryExists on a duplicate name
	Create(ctx context.Context, c *category.Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error)

	// GetByName retrieves a category by its exact name
	GetByName(ctx context.Context, name string) (*category.Category, error)

	// List retrieves all categories, newest first
	List(ctx context.Context) ([]*category.Category, error)

	// Update updates a category
	Update(ctx context.Context, c *category.Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Status     *product.Status
	Page       int
	PageSize   int
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, p *product.Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)

	// List retrieves products matching the filter, newest first
	List(ctx context.Context, filter ProductFilter) ([]*product.Product, error)

	// CountByCategory counts products referencing a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)

	// Update updates the editable fields of an active product, ErrProductClosed once closed
	Update(ctx context.Context, p *product.Product) error

	// CloseAuction atomically moves an active product to closed and returns it,
	// ErrAuctionAlreadyClosed if it was not active
	CloseAuction(ctx context.Context, id uuid.UUID, closedAt time.Time) (*product.Product, error)

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// BidRepository defines the interface for bid data operations
type BidRepository interface {
	// GetByProductID retrieves all bids for a product, highest first
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]*bid.Bid, error)

	// GetHighestBid retrieves the highest accepted bid for a product
	GetHighestBid(ctx context.Context, productID uuid.UUID) (*bid.Bid, error)

	// CountByProductID counts bids recorded for a product
	CountByProductID(ctx context.Context, productID uuid.UUID) (int, error)

	// PlaceBidWithOCC stores the bid and raises the product's current bid only if
	// the current bid still equals expectedCurrentBid and the auction is active
	PlaceBidWithOCC(ctx context.Context, b *bid.Bid, expectedCurrentBid float64) error
}

// Repositories bundles every repository a store exposes
type Repositories struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Bids       BidRepository
}
