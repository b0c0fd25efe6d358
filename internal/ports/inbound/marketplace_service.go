package inbound

import (
	"context"
	"time"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

// AuthService defines the interface for account and session operations
type AuthService interface {
	// Register creates a new account
	Register(ctx context.Context, req RegisterRequest) (*user.User, error)

	// Login verifies credentials and issues a bearer token
	Login(ctx context.Context, req LoginRequest) (*shared.Session, error)

	// Authenticate resolves a bearer token to the caller's identity
	Authenticate(ctx context.Context, token string) (*shared.Principal, error)

	// Logout ends the session bound to a bearer token
	Logout(ctx context.Context, token string) error
}

// UserService defines the interface for profile lookups
type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

// CategoryService defines the interface for category operations
type CategoryService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*category.Category, error)
	ListCategories(ctx context.Context) ([]*category.Category, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*category.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

// ProductService defines the interface for product listing operations
type ProductService interface {
	// CreateProduct lists a new product for auction
	CreateProduct(ctx context.Context, req CreateProductRequest) (*product.Product, error)

	// GetProduct retrieves a product by ID
	GetProduct(ctx context.Context, productID uuid.UUID) (*product.Product, error)

	// ListProducts retrieves a page of products
	ListProducts(ctx context.Context, req ListProductsRequest) ([]*product.Product, error)

	// UpdateProduct changes a listing on behalf of its seller
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*product.Product, error)

	// DeleteProduct removes a listing on behalf of its seller
	DeleteProduct(ctx context.Context, productID, actorID uuid.UUID) error

	// CloseAuction closes bidding on a product and reports the winner
	CloseAuction(ctx context.Context, productID uuid.UUID) (*shared.AuctionCloseResult, error)
}

// BidService defines the interface for bid operations
type BidService interface {
	// PlaceBid places a new bid on a product
	PlaceBid(ctx context.Context, req PlaceBidRequest) (*bid.Bid, error)

	// GetBids retrieves bids for a product, highest first
	GetBids(ctx context.Context, productID uuid.UUID) ([]*bid.Bid, error)

	// GetHighestBid retrieves the highest bid for a product
	GetHighestBid(ctx context.Context, productID uuid.UUID) (*bid.Bid, error)
}

// request to register an account
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// request to log in
type LoginRequest struct {
	Email    string
	Password string
}

// request to create a category
type CreateCategoryRequest struct {
	Name        string
	Description string
}

// request to update a category, nil fields are left untouched
type UpdateCategoryRequest struct {
	CategoryID  uuid.UUID
	Name        *string
	Description *string
}

// request to list a product
type CreateProductRequest struct {
	SellerID       uuid.UUID
	Title          string
	Description    string
	CategoryID     uuid.UUID
	StartingBid    float64
	AuctionEndTime *time.Time
	Images         []string
}

// request to list products
type ListProductsRequest struct {
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Status     *product.Status
	Page       int
	PageSize   int
}

// request to update a product, nil fields are left untouched
type UpdateProductRequest struct {
	ProductID      uuid.UUID
	ActorID        uuid.UUID
	Title          *string
	Description    *string
	CategoryID     *uuid.UUID
	AuctionEndTime *time.Time
	Images         []string
}

// request to place a bid
type PlaceBidRequest struct {
	ProductID uuid.UUID
	BuyerID   uuid.UUID
	Amount    float64
}
