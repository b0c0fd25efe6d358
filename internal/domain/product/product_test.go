package product

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestProduct_IsOpen(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   Status
		endTime  time.Time
		expected bool
	}{
		{"active before end", StatusActive, now.Add(time.Minute), true},
		{"active at end", StatusActive, now, false},
		{"active after end", StatusActive, now.Add(-time.Minute), false},
		{"closed before end", StatusClosed, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Status: tt.status, AuctionEndTime: tt.endTime}
			assert.Equal(t, tt.expected, p.IsOpen(now))
		})
	}
}

func TestProduct_Close(t *testing.T) {
	now := time.Now().UTC()
	p := &Product{Status: StatusActive}

	p.Close(now)

	assert.True(t, p.IsClosed())
	assert.Equal(t, now, p.UpdatedAt)
}

func TestProduct_IsSeller(t *testing.T) {
	seller := uuid.New()
	p := &Product{SellerID: seller}

	assert.True(t, p.IsSeller(seller))
	assert.False(t, p.IsSeller(uuid.New()))
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusClosed.Valid())
	assert.False(t, Status("sold").Valid())
}
