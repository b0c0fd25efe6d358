package rest

import (
	"errors"
	"net/http"

	"peram-marketplace-service/internal/domain/shared"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const serverErrorMessage = "Server error"

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	// users and auth
	case errors.Is(err, shared.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, shared.ErrUserAlreadyExists):
		return http.StatusConflict, "User already exists"
	case errors.Is(err, shared.ErrInvalidEmail),
		errors.Is(err, shared.ErrPasswordRequired),
		errors.Is(err, shared.ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, shared.ErrMissingToken),
		errors.Is(err, shared.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, shared.ErrIdentityUnavailable):
		return http.StatusServiceUnavailable, "Identity provider unavailable"
	case errors.Is(err, shared.ErrIdentityProviderError):
		return http.StatusBadRequest, err.Error()

	// categories
	case errors.Is(err, shared.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, shared.ErrCategoryExists):
		return http.StatusBadRequest, "Category already exists"
	case errors.Is(err, shared.ErrCategoryNameRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrCategoryInUse):
		return http.StatusConflict, err.Error()

	// products
	case errors.Is(err, shared.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, shared.ErrTitleRequired),
		errors.Is(err, shared.ErrInvalidStartingBid),
		errors.Is(err, shared.ErrInvalidAuctionEnd):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrNotProductSeller):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, shared.ErrProductClosed),
		errors.Is(err, shared.ErrProductHasBids),
		errors.Is(err, shared.ErrAuctionAlreadyClosed),
		errors.Is(err, shared.ErrAuctionNotEnded):
		return http.StatusConflict, err.Error()

	// bids
	case errors.Is(err, shared.ErrAuctionClosed),
		errors.Is(err, shared.ErrBidAmountTooLow):
		return http.StatusConflict, err.Error()
	case errors.Is(err, shared.ErrOwnProductBid):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, shared.ErrBidAmountInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, shared.ErrNoBidsFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, shared.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, serverErrorMessage
	}
}

// respondError writes the mapped error body and logs unexpected failures
func respondError(c *gin.Context, err error) {
	status, message := MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
