package outbound

//go:generate mockgen -source=identity.go -destination=mocks/mock_identity.go -package=mocks

import (
	"context"
	"time"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Identity is an account held by a hosted identity provider
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// IdentitySession is a token pair handed out by a hosted identity provider
type IdentitySession struct {
	AccessToken string
	ExpiresAt   time.Time
	Identity    Identity
}

// IdentityProvider is a backend-as-a-service authentication API
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*IdentitySession, error)
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
	SignOut(ctx context.Context, accessToken string) error
}

// TokenIssuer signs and verifies self-issued access tokens
type TokenIssuer interface {
	Issue(principal shared.Principal) (token string, expiresAt time.Time, err error)
	Parse(token string) (*shared.Principal, error)
}
