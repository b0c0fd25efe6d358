package token

import (
	"testing"
	"time"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", time.Hour)
	principal := shared.Principal{UserID: uuid.New(), Email: "ana@example.com"}

	signed, expiresAt, err := issuer.Issue(principal)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	parsed, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, principal, *parsed)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	principal := shared.Principal{UserID: uuid.New(), Email: "ana@example.com"}
	issuer := NewJWTIssuer("test-secret", time.Hour)
	valid, _, err := issuer.Issue(principal)
	require.NoError(t, err)

	expired := NewJWTIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Issue(principal)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: principal.UserID.String(),
		Issuer:  "peram-marketplace",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: func() string {
			other, _, _ := NewJWTIssuer("other-secret", time.Hour).Issue(principal)
			return other
		}()},
		{name: "expired", token: expiredToken},
		{name: "unsigned", token: noneToken},
		{name: "tampered", token: valid + "x"},
		{name: "garbage", token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, shared.ErrInvalidToken)
		})
	}
}
