package shared

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the identity attached to an authenticated request
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Session is issued on a successful login
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uuid.UUID `json:"user_id"`
}
