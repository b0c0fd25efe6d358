package bid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBid_IsValid(t *testing.T) {
	assert.True(t, (&Bid{Amount: 150.25}).IsValid())
	assert.False(t, (&Bid{Amount: 150.255}).IsValid())
	assert.False(t, (&Bid{Amount: 0}).IsValid())
	assert.False(t, (&Bid{Amount: 2e12}).IsValid())
}

func TestBid_Accept(t *testing.T) {
	now := time.Now().UTC()
	b := &Bid{}

	b.Accept(now)

	assert.True(t, b.IsAccepted())
	assert.Equal(t, now, b.UpdatedAt)
}
