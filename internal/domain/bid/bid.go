package bid

import (
	"time"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Status represents the status of a bid
type Status string

const StatusAccepted Status = "accepted"

// Bid is a buyer's offer on a product
type Bid struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	BuyerID   uuid.UUID `json:"buyer_id" db:"buyer_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsValid returns true if the bid amount is a storable positive price
func (b *Bid) IsValid() bool {
	return shared.ValidAmount(b.Amount)
}

// Accept marks the bid as accepted
func (b *Bid) Accept(now time.Time) {
	b.Status = StatusAccepted
	b.UpdatedAt = now
}

// IsAccepted returns true if the bid was accepted
func (b *Bid) IsAccepted() bool {
	return b.Status == StatusAccepted
}
