package product

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAuctionDuration applies when a listing omits its auction end time
const DefaultAuctionDuration = 14 * 24 * time.Hour

// Status represents the current status of a product auction
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusClosed
}

// Product is a second-hand item listed for auction
type Product struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CategoryID     uuid.UUID `json:"category_id"`
	SellerID       uuid.UUID `json:"seller_id"`
	StartingBid    float64   `json:"starting_bid"`
	CurrentBid     float64   `json:"current_bid"`
	AuctionEndTime time.Time `json:"auction_end_time"`
	Images         []string  `json:"images"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsOpen returns true if the product accepts bids at the given instant
func (p *Product) IsOpen(now time.Time) bool {
	return p.Status == StatusActive && now.Before(p.AuctionEndTime)
}

// IsClosed returns true if the auction has been closed
func (p *Product) IsClosed() bool {
	return p.Status == StatusClosed
}

// IsSeller returns true if userID listed this product
func (p *Product) IsSeller(userID uuid.UUID) bool {
	return p.SellerID == userID
}

// Close marks the auction as closed
func (p *Product) Close(now time.Time) {
	p.Status = StatusClosed
	p.UpdatedAt = now
}
