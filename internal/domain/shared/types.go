package shared

import "github.com/google/uuid"

// AuctionCloseResult represents the result of closing a product auction
type AuctionCloseResult struct {
	ProductID  uuid.UUID
	WinnerID   *uuid.UUID
	FinalPrice *float64
	Status     string
}
