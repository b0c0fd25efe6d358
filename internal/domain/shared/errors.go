package shared

import "errors"

// Domain-specific errors
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors
	ErrMissingToken          = errors.New("authorization token is required")
	ErrInvalidToken          = errors.New("invalid token")
	ErrIdentityUnavailable   = errors.New("identity provider unavailable")
	ErrIdentityProviderError = errors.New("identity provider rejected the request")

	// Category errors
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryInUse        = errors.New("category is still used by products")

	// Product errors
	ErrProductNotFound      = errors.New("product not found")
	ErrTitleRequired        = errors.New("product title is required")
	ErrInvalidStartingBid   = errors.New("starting bid must be a positive amount with at most 2 decimals")
	ErrInvalidAuctionEnd    = errors.New("auction end time must be in the future")
	ErrNotProductSeller     = errors.New("only the seller can modify this product")
	ErrProductClosed        = errors.New("product auction is closed")
	ErrProductHasBids       = errors.New("product with bids cannot be deleted")
	ErrAuctionAlreadyClosed = errors.New("auction already closed")
	ErrAuctionNotEnded      = errors.New("auction has not reached its end time")

	// Bid errors
	ErrBidAmountTooLow  = errors.New("bid amount must be higher than current bid")
	ErrBidAmountInvalid = errors.New("bid amount must be a positive amount with at most 2 decimals")
	ErrAuctionClosed    = errors.New("auction is closed")
	ErrOwnProductBid    = errors.New("sellers cannot bid on their own products")
	ErrNoBidsFound      = errors.New("no bids found")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")

	// WebSocket message validation errors
	ErrMessageTypeRequired        = errors.New("message type is required")
	ErrProductIDRequired          = errors.New("product_id is required")
	ErrInvalidAmount              = errors.New("valid amount is required")
	ErrUnknownMessageType         = errors.New("unknown message type")
	ErrAuthenticationRequired     = errors.New("authentication required")
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
)
