package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/stretchr/testify/require"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{"user not found", shared.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"duplicate email", shared.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
		{"long password", shared.ErrPasswordTooLong, http.StatusBadRequest, shared.ErrPasswordTooLong.Error()},
		{"bad credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"missing token", shared.ErrMissingToken, http.StatusUnauthorized, "Invalid token"},
		{"identity down", shared.ErrIdentityUnavailable, http.StatusServiceUnavailable, "Identity provider unavailable"},
		{"category exists", shared.ErrCategoryExists, http.StatusBadRequest, "Category already exists"},
		{"category in use", shared.ErrCategoryInUse, http.StatusConflict, shared.ErrCategoryInUse.Error()},
		{"not seller", shared.ErrNotProductSeller, http.StatusForbidden, shared.ErrNotProductSeller.Error()},
		{"has bids", shared.ErrProductHasBids, http.StatusConflict, shared.ErrProductHasBids.Error()},
		{"auction closed", shared.ErrAuctionClosed, http.StatusConflict, "auction is closed"},
		{"own product", shared.ErrOwnProductBid, http.StatusForbidden, shared.ErrOwnProductBid.Error()},
		{"non-positive bid", shared.ErrBidAmountInvalid, http.StatusBadRequest, shared.ErrBidAmountInvalid.Error()},
		{"bid too low", shared.ErrBidAmountTooLow, http.StatusConflict, shared.ErrBidAmountTooLow.Error()},
		{
			"wrapped not found",
			fmt.Errorf("failed to load: %w", shared.ErrProductNotFound),
			http.StatusNotFound,
			"Product not found",
		},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := MapErrorToHTTP(tt.err)
			require.Equal(t, tt.expectedStatus, status)
			require.Equal(t, tt.expectedMsg, msg)
		})
	}
}
